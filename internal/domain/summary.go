package domain

// WorkerStats is the per-worker result of a run.
type WorkerStats struct {
	Worker    int       `json:"worker"`
	Subdomain Subdomain `json:"subdomain"`
	Rounds    int       `json:"rounds"`

	// Initiated is the number of walkers this worker created.
	Initiated int `json:"initiated"`

	// Completed is the number of walkers whose walk ended inside this worker.
	Completed int `json:"completed"`

	// Sent and Received count migrated walkers over all rounds.
	Sent     int `json:"sent"`
	Received int `json:"received"`

	// Stranded counts walkers still held after the final round. It is zero
	// whenever the round bound holds.
	Stranded int `json:"stranded"`
}

// Summary aggregates the stats of every worker in a run.
type Summary struct {
	DomainSize       int           `json:"domain_size"`
	MaxWalkSize      int           `json:"max_walk_size"`
	WalkersPerWorker int           `json:"walkers_per_worker"`
	Workers          int           `json:"workers"`
	Rounds           int           `json:"rounds"`
	Seed             int64         `json:"seed"`
	Total            int           `json:"total"`
	Completed        int           `json:"completed"`
	Stranded         int           `json:"stranded"`
	PerWorker        []WorkerStats `json:"per_worker"`
}

// Add folds one worker's stats into the summary.
func (s *Summary) Add(ws WorkerStats) {
	s.Total += ws.Initiated
	s.Completed += ws.Completed
	s.Stranded += ws.Stranded
	s.PerWorker = append(s.PerWorker, ws)
}

// Conserved reports whether every created walker is accounted for, either
// completed or still stranded in some worker.
func (s Summary) Conserved() bool {
	return s.Completed+s.Stranded == s.Total
}

package ringwalk_test

import (
	"context"
	"fmt"
	"os"

	"github.com/bft-labs/ringwalk/pkg/ringwalk"
)

// ExampleRun runs the classic four-worker scenario.
func ExampleRun() {
	cfg := ringwalk.DefaultConfig()
	cfg.DomainSize = 20
	cfg.MaxWalkSize = 6
	cfg.WalkersPerWorker = 1
	cfg.Seed = 1

	summary, err := ringwalk.Run(context.Background(), cfg)
	if err != nil {
		fmt.Println("run failed:", err)
		return
	}

	fmt.Printf("workers=%d rounds=%d total=%d completed=%d stranded=%d\n",
		summary.Workers, summary.Rounds, summary.Total, summary.Completed, summary.Stranded)
	// Output: workers=4 rounds=2 total=4 completed=4 stranded=0
}

// Example_withProgress prints the per-worker progress of a single worker run.
func Example_withProgress() {
	cfg := ringwalk.DefaultConfig()
	cfg.Workers = 1
	cfg.DomainSize = 10
	cfg.MaxWalkSize = 5
	cfg.WalkersPerWorker = 2

	_, err := ringwalk.Run(context.Background(), cfg, ringwalk.WithProgress(os.Stdout))
	if err != nil {
		fmt.Println("run failed:", err)
	}
	// Output:
	// Worker 0 initiated 2 walkers in subdomain 0 - 9
	// Worker 0 sending 0 outgoing walkers to worker 0
	// Worker 0 received 0 incoming walkers
	// Worker 0 done
}

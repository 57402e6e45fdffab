// Command nmsbench benchmarks the suppression engine over synthetic
// candidate clouds, either the built-in size sweep or scenarios loaded
// from a YAML file, and can write a JSON report for regression tracking.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/akamensky/argparse"

	"github.com/nvr-ai/go-nms/benchmark"
)

func main() {
	parser := argparse.NewParser("nmsbench", "Benchmark the non-maximum suppression kernels")
	scenarioFile := parser.String("s", "scenarios", &argparse.Options{
		Help: "YAML scenario file. Omit to run the built-in sweep",
	})
	output := parser.String("o", "output", &argparse.Options{
		Help: "Write a JSON report to this path",
	})
	iterations := parser.Int("n", "iterations", &argparse.Options{
		Help: "Override the iteration count of every scenario",
	})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}

	scenarios := benchmark.DefaultScenarios()
	if *scenarioFile != "" {
		loaded, err := benchmark.LoadScenarios(*scenarioFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nmsbench: %v\n", err)
			os.Exit(1)
		}
		scenarios = loaded
	}

	suite := benchmark.NewSuite()
	for _, scenario := range scenarios {
		if *iterations > 0 {
			scenario.Iterations = *iterations
		}
		suite.AddScenario(scenario)
	}

	results, err := suite.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "nmsbench: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-20s %12s %14s %12s %10s\n", "scenario", "boxes", "mean latency", "boxes/sec", "survivors")
	for _, r := range results {
		fmt.Printf("%-20s %12d %14s %12.0f %10d\n",
			r.Scenario.Name,
			r.Scenario.NumBoxes,
			r.MeanLatency,
			r.BoxesPerSecond,
			r.SurvivorCount,
		)
	}

	if *output != "" {
		if err := suite.SaveResults(*output); err != nil {
			fmt.Fprintf(os.Stderr, "nmsbench: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("report written to %s\n", *output)
	}
}

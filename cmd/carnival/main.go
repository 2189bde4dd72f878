// Command carnival runs the five-stage pipeline simulator over a MIPS
// assembly source file and prints the timing diagram and register state
// after every cycle.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mailmindlin/automatic-carnival/internal/config"
	"github.com/mailmindlin/automatic-carnival/internal/parser"
	"github.com/mailmindlin/automatic-carnival/internal/simulator"
)

const usage = "Usage: carnival [-config path] [-v] <F|N> <source-file>"

var separator = strings.Repeat("-", 82)

func main() {
	configPath := flag.String("config", "", "Path to an optional YAML configuration file")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)
	if *verbose {
		logger.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			logger.Fatalf("Failed to load configuration: %v", err)
		}
		cfg = loaded
	}

	args := flag.Args()
	var mode, srcPath string
	switch {
	case len(args) == 2:
		mode, srcPath = args[0], args[1]
	case len(args) == 1 && cfg.ForwardingDefault != "":
		// The config file pins a forwarding mode, so the mode argument
		// can be omitted and only the source file given.
		mode, srcPath = cfg.ForwardingDefault, args[0]
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	if mode != "F" && mode != "N" {
		fmt.Printf("Error: forwarding mode must be either 'F' or 'N' (actual: %q)\n", mode)
		os.Exit(1)
	}
	forwarding := mode == "F"

	src, err := os.ReadFile(srcPath)
	if err != nil {
		logger.Fatalf("Failed to read source file: %v", err)
	}

	instructions, err := parser.Decode(string(src))
	if err != nil {
		logger.Fatalf("Failed to parse source: %v", err)
	}

	sim := simulator.New(instructions, forwarding, cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		modeDesc := "no forwarding"
		if forwarding {
			modeDesc = "forwarding"
		}
		fmt.Printf("START OF SIMULATION (%s)\n", modeDesc)

		done <- sim.Run(func(s *simulator.Simulator) {
			fmt.Println(separator)
			fmt.Print(s.Diagram())
			fmt.Println()
			fmt.Print(s.Snapshot())
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Fatalf("Simulation failed: %v", err)
		}
		fmt.Println("END OF SIMULATION")
	case <-sigChan:
		logger.Println("Received termination signal. Shutting down...")
		sim.Shutdown()
		<-done
		logger.Println("Simulation terminated successfully")
	}
}

/*
Package sprout bootstraps a development environment for a Node + Python project.

A run walks five ordered phases: system packages, git identity, Node dependencies,
the Python virtual environment and the .env file. Every phase is idempotent and
records its commands in a report. Only a missing package manager on Windows, a
missing package.json, or a failing command in strict mode stop the run early.

# Architecture

The core (pkg/bootstrap) is decoupled from its surroundings through ports:
processes (ports.CommandRunner), interactive answers (ports.Prompter), report
persistence (ports.ReportStore) and cross-machine locking (ports.DistributedLocker).
Engine wires the defaults and adds persistence, locking and metrics on top.

# Usage

	eng, err := sprout.New("./my-app",
		sprout.WithStore(file.New(filepath.Join("./my-app", file.DefaultDir))),
	)
	if err != nil {
		log.Fatal(err)
	}

	report, err := eng.Run(ctx)
	if err != nil {
		log.Fatalf("bootstrap aborted: %v", err)
	}
	fmt.Println(report.Status)

Plan resolves the same command list without starting a process, and Doctor
reports which tools and manifests are present.
*/
package sprout

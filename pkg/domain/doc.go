/*
Package domain contains the core domain models of the Sprout bootstrapper.

It defines the vocabulary shared by the bootstrap phases, the command adapters and
the report stores. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Platform: The host operating system family (linux, darwin, windows).
  - Command: A single external invocation (package manager, git, npm, pip).
  - PhaseResult: The outcome of one bootstrap phase (Success, Skipped, Failed, Aborted).
  - Report: The aggregate of every phase of a run, persisted for later inspection.
*/
package domain

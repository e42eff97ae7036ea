/*
Package ports defines the driven ports (interfaces) for the Sprout bootstrapper.

These interfaces decouple the bootstrap phases from the host, allowing the same
sequence to run against real processes, a dry-run recorder or scripted test doubles.

# Key Interfaces

  - CommandRunner: Probes for binaries and invokes external commands.
  - Prompter: Asks the user for input (git identity).
  - ReportStore: Persists run reports for history and the status API.
  - DistributedLocker: Serializes runs for the same project across machines.
*/
package ports

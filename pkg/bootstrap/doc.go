/*
Package bootstrap prepares a development machine for a web project.

A Bootstrapper runs five phases in a fixed order, each one synchronous and never retried:

	system → git → node → python → env

Every phase talks to the host through a ports.CommandRunner (probe, invoke, inspect exit
code) and only inspects external state through file existence checks. The outcome of each
phase is recorded in a domain.PhaseResult and aggregated into a domain.Report.

Two conditions are terminal and stop the run: a Windows host without Chocolatey
(domain.ErrPackageManagerMissing) and a project without package.json
(domain.ErrManifestMissing). Any other failing command is recorded and the run continues,
unless Settings.Strict is set, in which case the first failure stops the run with
domain.ErrCommandFailed.
*/
package bootstrap

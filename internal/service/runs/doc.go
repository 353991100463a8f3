// Package runs implements simulation run orchestration and history.
//
// The service layer validates drafts, builds the persona population, drives
// the simulation engine, and persists completed runs. It depends on the
// repository interface defined in this package and should never import
// from api/.
//
// Repository implementations live in repository/postgres/ and repository/memory/.
package runs

// Package gitrepo answers the read-only reference queries needed to compare a
// branch with its upstream.
//
// QueryRunner is implemented twice: ShellQueryRunner runs git subprocesses in
// the repository directory through execshell, and GoGitQueryRunner reads the
// repository in process with go-git. Both share a ProcessPool that bounds how
// many queries run at once across all repositories.
package gitrepo

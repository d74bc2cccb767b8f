// Package preflight provides readiness checks for the filesystem paths and
// the Live remote-control socket the daemon depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll at startup and logs failures without refusing
//     to serve; the HTTP surface stays up while Live is down.
//   - The CLI "livebridge status" command uses individual check functions
//     (CheckLive, CheckDirectoryAccess) to display service health.
//
// A passing Live check only proves the socket accepts connections, not that
// the remote script inside Live answers commands.
package preflight

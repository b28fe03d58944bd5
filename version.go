package malgo

// Version of the runtime; surfaced by `malgo version` and the REPL banner.
const Version = "0.4.0"

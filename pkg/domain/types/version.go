package types

// Version is the plfrecover release version, overridden at build time via ldflags.
var Version = "dev"

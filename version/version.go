package version

// Version represents the Major.Minor.Patch version tag
// from GIT, set at build time with
// -ldflags "-X github.com/jake-scott/switchbot-cli/version.Version=..."
// else 'dev' as a default
var Version string = "dev"

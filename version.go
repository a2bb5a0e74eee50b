package shotdeck

import "fmt"

// Version information for the ShotDeck engine.
const (
	VersionMajor = 0
	VersionMinor = 3
	VersionPatch = 1
)

// Version is the full version string, written to docProps/app.xml.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)

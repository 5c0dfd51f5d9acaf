package core

// Names of the members that may appear under one GUID directory in a Unity
// package. Only asset and pathname are consumed; the meta sidecar and preview
// image are intentionally ignored.
const (
	MemberAsset    = "asset"
	MemberMeta     = "asset.meta"
	MemberPathname = "pathname"
	MemberPreview  = "preview.png"
)

// ManifestName is the fixed name of the manifest entry at the output archive root.
const ManifestName = "package.json"

// AssetsPrefix is the folder Unity's exporter roots every pathname under.
const AssetsPrefix = "Assets/"

// LogicalEntry is one file destined for the output archive, reconstructed from
// a GUID group of the source archive.
type LogicalEntry struct {
	ID      string // GUID the source archive grouped this file under (not preserved in output)
	RelPath string // slash-separated path below the package root
	Payload []byte // raw asset bytes, copied verbatim
}

// Warning records a GUID group that was skipped during conversion.
type Warning struct {
	ID     string // GUID of the skipped group
	Reason string // why it could not be reconstructed
}

func (w Warning) String() string {
	return w.ID + ": " + w.Reason
}

// Options control conversion behavior.
type Options struct {
	// Strict aborts the conversion on the first group that would otherwise be
	// skipped with a warning.
	Strict bool
	// FailOnCollision rejects two entries resolving to the same output path
	// instead of letting the later one win.
	FailOnCollision bool
}

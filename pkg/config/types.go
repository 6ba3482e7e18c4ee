// Package config loads the optional rendering-profile YAML file named by
// the extract command's --config flag, modeled on the teacher's
// pkg/config.LoadConfig generic loader. The extract command applies only
// the profile's parser toggles (MachOToggles); the arch, platform,
// ObjC-constraint and Swift-version edit fields are decoded but not
// applied to the rendered output.
package config

// Kind identifies the one document type this loader accepts, mirroring the
// teacher's TypeMeta.Kind discriminator.
const RenderProfileKind = "RenderProfile"

// RenderProfile is a reusable bundle of field edits and parser toggles,
// so a caller can point --config at a file instead of repeating the same
// dozen flags across many invocations.
type RenderProfile struct {
	Kind string `json:"kind"`

	AddArchs     []string `json:"addArchs,omitempty"`
	RemoveArchs  []string `json:"removeArchs,omitempty"`
	ReplaceArchs []string `json:"replaceArchs,omitempty"`

	ReplaceObjCConstraint string `json:"replaceObjcConstraint,omitempty"`
	ReplacePlatform       string `json:"replacePlatform,omitempty"`
	ReplaceSwiftVersion   string `json:"replaceSwiftVersion,omitempty"`

	AllowPrivateSymbols   bool `json:"allowPrivateSymbols,omitempty"`
	AllowPrivateObjC      bool `json:"allowPrivateObjc,omitempty"`
	IgnoreUnsupportedArch bool `json:"ignoreUnsupportedArch,omitempty"`
}

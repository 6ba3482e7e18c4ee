package cli

const (
	extractCmd        = "extract"
	listDSCImagesCmd  = "list-dsc-images"
	listArchitectures = "list-architectures"
)

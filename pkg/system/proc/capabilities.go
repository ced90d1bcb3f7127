package proc

// Capabilities records which optional procfs sources exist. It is
// probed once and never changes afterwards.
type Capabilities struct {
	ProcStat       bool // <root>/stat
	ProcSelfStat   bool // <root>/self/stat
	ProcSelfLimits bool // <root>/self/limits
	ProcSelfFD     bool // <root>/self/fd
}

// DetectCapabilities checks existence (not readability) of each source.
func DetectCapabilities(fs FS) Capabilities {
	return Capabilities{
		ProcStat:       exists(fs.Path("stat")),
		ProcSelfStat:   exists(fs.SelfPath("stat")),
		ProcSelfLimits: exists(fs.SelfPath("limits")),
		ProcSelfFD:     exists(fs.SelfPath("fd")),
	}
}

package constant

type Stage string

const (
	StageDownload   Stage = "download"
	StageSegment    Stage = "segment"
	StageEmbed      Stage = "embed"
	StageCluster    Stage = "cluster"
	StageDerive     Stage = "derive"
	StageTranscribe Stage = "transcribe"
)

func (s Stage) String() string {
	return string(s)
}

type URLType string

const (
	URLTypeSingle   URLType = "single"
	URLTypePlaylist URLType = "playlist"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

const (
	// SegmentsDirName holds the fixed-length splits of one audio file,
	// inside that audio file's folder.
	SegmentsDirName = "segments"
	// FinalSegmentsDirName is the project-level directory for per-interval
	// derived artifacts.
	FinalSegmentsDirName = "FinalSegments"

	SpeakerLabelFormat = "Speaker %d"
)

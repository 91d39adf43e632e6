package onboarding

// Step indexes the fixed onboarding sequence.
type Step int

const (
	StepWelcome Step = iota
	StepResume
	StepVideo
	StepCompletion

	lastStep = StepCompletion
)

var stepNames = map[Step]string{
	StepWelcome:    "welcome",
	StepResume:     "resume",
	StepVideo:      "video",
	StepCompletion: "completion",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// ResumeData holds the resume capture artifacts. File is the raw document
// payload held only for the duration of a capture; it never survives in a
// persisted snapshot.
type ResumeData struct {
	File        []byte `json:"file,omitempty"`
	Text        string `json:"text,omitempty"`
	UploadedURL string `json:"uploadedUrl,omitempty"`
	ParsedKey   string `json:"parsedKey,omitempty"`
}

// VideoData holds the video capture artifacts. Blob is the raw clip payload,
// capture-session-scoped like ResumeData.File.
type VideoData struct {
	Blob        []byte `json:"blob,omitempty"`
	UploadedURL string `json:"uploadedUrl,omitempty"`
}

// Progress is the per-candidate onboarding state.
type Progress struct {
	HasStarted  bool       `json:"hasStarted"`
	Step        Step       `json:"step"`
	ResumeData  ResumeData `json:"resumeData"`
	VideoData   VideoData  `json:"videoData"`
	IsMinimized bool       `json:"isMinimized"`
}

// ResumeComplete reports whether the resume step is done. Completion is
// derived from the captured data on every read, never stored, so the flag
// cannot drift from the data it summarizes.
func ResumeComplete(p Progress) bool {
	return p.ResumeData.Text != "" || p.ResumeData.UploadedURL != ""
}

// VideoComplete reports whether the video step is done.
func VideoComplete(p Progress) bool {
	return p.VideoData.UploadedURL != ""
}

// Terminal reports whether the candidate has reached the final step with both
// artifacts captured. Reaching it does not auto-complete the flow.
func Terminal(p Progress) bool {
	return p.Step == lastStep && ResumeComplete(p) && VideoComplete(p)
}

// Sanitize strips transient binary payloads. Applied before every persist and
// again after every restore.
func Sanitize(p Progress) Progress {
	p.ResumeData.File = nil
	p.VideoData.Blob = nil
	return p
}

func clampStep(s Step) Step {
	if s < StepWelcome {
		return StepWelcome
	}
	if s > lastStep {
		return lastStep
	}
	return s
}

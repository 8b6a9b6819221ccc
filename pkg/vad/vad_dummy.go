package vad

// Dummy is a Detector which does not look at the audio: it validates
// the input exactly as a real detector does and then reports HasSpeech.
type Dummy struct {
	HasSpeech  bool
	ProcessErr error

	CurrentState State
	CurrentMode  Mode
	Processed    uint64
}

var _ Detector = (*Dummy)(nil)

func NewDummy(hasSpeech bool) *Dummy {
	return &Dummy{
		HasSpeech:    hasSpeech,
		CurrentState: StateCreated,
	}
}

func (d *Dummy) Init() error {
	if d == nil || d.CurrentState == StateClosed {
		return ErrInvalidInstance{State: d.state()}
	}
	d.CurrentState = StateInitialized
	d.Processed = 0
	return nil
}

func (d *Dummy) SetMode(mode Mode) error {
	if d == nil || d.CurrentState == StateClosed {
		return ErrInvalidInstance{State: d.state()}
	}
	if !mode.IsValid() {
		return ErrInvalidMode{Mode: mode}
	}
	d.CurrentMode = mode
	return nil
}

func (d *Dummy) Process(sampleRate int, frame []int16) (bool, error) {
	if d == nil || d.CurrentState != StateInitialized {
		return false, ErrInvalidInstance{State: d.state()}
	}
	if err := ValidateFrame(sampleRate, frame); err != nil {
		return false, err
	}
	if d.ProcessErr != nil {
		return false, ErrProcessing{Err: d.ProcessErr}
	}
	d.Processed++
	return d.HasSpeech, nil
}

func (d *Dummy) Close() error {
	if d == nil {
		return nil
	}
	d.CurrentState = StateClosed
	return nil
}

func (d *Dummy) state() State {
	if d == nil {
		return StateUndefined
	}
	return d.CurrentState
}

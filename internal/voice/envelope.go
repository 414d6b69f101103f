package voice

// EnvelopeMax is the envelope ceiling; the audio path scales by envelope/2^15.
const EnvelopeMax = 32767

// StepEnvelope advances the envelope by one control tick. Release reaching
// zero is the only place a voice deactivates.
func (v *Voice) StepEnvelope(attackStep, releaseStep int32) {
	switch v.Stage {
	case Attack:
		if v.Envelope+attackStep >= EnvelopeMax {
			v.Envelope = EnvelopeMax
			v.Stage = Sustain
		} else {
			v.Envelope += attackStep
		}
	case Release:
		if v.Envelope <= releaseStep {
			v.Envelope = 0
			v.Stage = Idle
			v.Active = false
		} else {
			v.Envelope -= releaseStep
		}
	}
}

// StepPortamento moves Increment toward TargetIncrement by (target-current)>>shift.
// Negative differences round toward minus infinity.
func (v *Voice) StepPortamento(shift uint) {
	diff := int64(v.TargetIncrement) - int64(v.Increment)
	v.Increment = uint32(int64(v.Increment) + diff>>shift)
}

package media

import "fmt"

type Device string

const (
	DeviceCPU Device = "cpu"
	DeviceGPU Device = "gpu"
)

type Quality string

const (
	QualityHigh Quality = "high"
	QualityGood Quality = "good"
	QualityLow  Quality = "low"
)

// EncoderSettings is one row of the fixed device/quality parameter table,
// applied identically at the trim and final-assembly stages.
type EncoderSettings struct {
	Codec     string
	RateFlag  string
	RateValue string
	Preset    string
}

var encoderSettings = map[Device]map[Quality]EncoderSettings{
	DeviceCPU: {
		QualityHigh: {Codec: "libx264", RateFlag: "-crf", RateValue: "18", Preset: "slow"},
		QualityGood: {Codec: "libx264", RateFlag: "-crf", RateValue: "23", Preset: "medium"},
		QualityLow:  {Codec: "libx264", RateFlag: "-crf", RateValue: "28", Preset: "fast"},
	},
	DeviceGPU: {
		QualityHigh: {Codec: "h264_nvenc", RateFlag: "-cq", RateValue: "19", Preset: "p7"},
		QualityGood: {Codec: "h264_nvenc", RateFlag: "-cq", RateValue: "23", Preset: "p5"},
		QualityLow:  {Codec: "h264_nvenc", RateFlag: "-cq", RateValue: "28", Preset: "p3"},
	},
}

// SettingsFor resolves the encoder parameters for a device/quality pair.
func SettingsFor(device Device, quality Quality) (EncoderSettings, error) {
	byQuality, ok := encoderSettings[device]
	if !ok {
		return EncoderSettings{}, fmt.Errorf("unknown device %q (want cpu or gpu)", device)
	}
	settings, ok := byQuality[quality]
	if !ok {
		return EncoderSettings{}, fmt.Errorf("unknown quality %q (want high, good or low)", quality)
	}
	return settings, nil
}

func (s EncoderSettings) args() []string {
	return []string{
		"-c:v", s.Codec,
		"-preset", s.Preset,
		s.RateFlag, s.RateValue,
		"-c:a", "aac",
		"-ar", "44100",
	}
}

package libelium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReadCommand(t *testing.T) {
	want := []byte{SOH, 'R', 'E', 'A', 'D', CR, LF, '2', 'A', '3', '1', EOT}
	assert.Equal(t, want, BuildReadCommand())
}

func TestBuildSetCommand(t *testing.T) {
	cfg := RadioConfig{Channel: Ch10_868, Address: 5, Bandwidth: BW125, CodingRate: CR5, SpreadingFactor: SF6}
	frame, err := BuildSetCommand(cfg)
	require.NoError(t, err)

	body := "SET#FREC:CH_10_868;ADDR:5;BW:BW_125;CR:CR_5;SF:SF_6"
	want := append([]byte{SOH}, body...)
	want = append(want, CR, LF, '8', 'C', 'B', '3', EOT)
	assert.Equal(t, want, frame)
}

func TestBuildSetCommand_AllFieldsAndAddress(t *testing.T) {
	cfg := RadioConfig{Channel: Ch17_868, Address: 255, Bandwidth: BW500, CodingRate: CR8, SpreadingFactor: SF12}
	frame, err := BuildSetCommand(cfg)
	require.NoError(t, err)

	body := "SET#FREC:CH_17_868;ADDR:255;BW:BW_500;CR:CR_8;SF:SF_12"
	assert.Equal(t, SOH, frame[0])
	assert.Equal(t, body, string(frame[1:1+len(body)]))
	assert.Equal(t, []byte{CR, LF}, frame[1+len(body):3+len(body)])
	digits := EncodeCRC(Compute([]byte(body)))
	assert.Equal(t, digits[:], frame[3+len(body):7+len(body)])
	assert.Equal(t, EOT, frame[len(frame)-1])
	assert.Len(t, frame, len(body)+8)
}

func TestBuildSetCommand_InvalidEnum(t *testing.T) {
	tests := []struct {
		name string
		cfg  RadioConfig
	}{
		{"channel", RadioConfig{Channel: Channel(42), Address: 1}},
		{"bandwidth", RadioConfig{Bandwidth: Bandwidth(3), Address: 1}},
		{"coding rate", RadioConfig{CodingRate: CodingRate(-1), Address: 1}},
		{"spreading factor", RadioConfig{SpreadingFactor: SpreadingFactor(99), Address: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := BuildSetCommand(tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.name)
			assert.Nil(t, frame)
		})
	}
}

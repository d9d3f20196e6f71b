package l15

import (
	"fmt"
	"strings"
)

var channelNames = [NumChannels]string{
	"vis006", "vis008", "ir_016", "ir_039", "wv_062", "wv_073",
	"ir_087", "ir_097", "ir_108", "ir_120", "ir_134", "hrv",
}

// ChannelName for a 1 based channel id, empty if out of range.
func ChannelName(id int) string {
	if id < 1 || id > NumChannels {
		return ""
	}
	return channelNames[id-1]
}

// ChannelID resolves a channel name to its 1 based id. Matching is case
// insensitive and only needs the name as a prefix, so "IR_108___" matches.
func ChannelID(name string) (int, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n != "" {
		for i, c := range channelNames {
			if strings.HasPrefix(n, c) {
				return i + 1, nil
			}
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownChannel)
}

// ChannelNames returns all channel names in id order.
func ChannelNames() []string {
	return append([]string(nil), channelNames[:]...)
}

// IsSolar reports whether the channel sees reflected sunlight.
func IsSolar(id int) bool {
	return id == 1 || id == 2 || id == 3 || id == ChannelHRV
}

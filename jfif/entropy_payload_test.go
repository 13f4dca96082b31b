package jfif

import (
	"bytes"
	"testing"
)

func TestExtractEntropyPayload(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		payload  []byte
		consumed int
	}{
		{"stuffed byte then EOI", []byte{0x12, 0xFF, 0x00, 0x34, 0xFF, 0xD9}, []byte{0x12, 0xFF, 0x34}, 4},
		{"restart marker kept", []byte{0x01, 0xFF, 0xD0, 0x02, 0xFF, 0xD7, 0xFF, 0xD9}, []byte{0x01, 0xFF, 0xD0, 0x02, 0xFF, 0xD7}, 6},
		{"marker first", []byte{0xFF, 0xD9}, []byte{}, 0},
		{"no marker", []byte{0x01, 0x02}, []byte{0x01, 0x02}, 2},
		{"trailing 0xFF", []byte{0x01, 0xFF}, []byte{0x01, 0xFF}, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			payload, consumed := ExtractEntropyPayload(tc.data)
			if !bytes.Equal(payload, tc.payload) {
				t.Errorf("payload % X, expected % X", payload, tc.payload)
			}
			if consumed != tc.consumed {
				t.Errorf("consumed %d, expected %d", consumed, tc.consumed)
			}
		})
	}
}

package jfif

// ExtractEntropyPayload removes byte stuffing from the entropy-coded data
// that starts at data[0] and returns the de-stuffed bytes together with the
// number of input bytes consumed.
//
// 0xFF 0x00 yields a single 0xFF. Restart markers 0xFF 0xD0-0xD7 are kept
// as they are. Any other 0xFF ends the payload before that byte, so
// consumed is the offset of the next marker.
func ExtractEntropyPayload(data []byte) (payload []byte, consumed int) {
	payload = make([]byte, 0, len(data))

	pos := 0
	for pos < len(data) {
		b := data[pos]
		if b != 0xFF {
			payload = append(payload, b)
			pos++
			continue
		}

		if pos+1 >= len(data) {
			// a lone trailing 0xFF cannot start a marker
			payload = append(payload, b)
			pos++
			break
		}

		next := data[pos+1]
		switch {
		case next == 0x00:
			payload = append(payload, 0xFF)
			pos += 2
		case isRestartCode(next):
			payload = append(payload, 0xFF, next)
			pos += 2
		default:
			return payload, pos
		}
	}

	return payload, pos
}

package usecases

import (
	"encoding/base64"
	"encoding/binary"
	"errors"

	"github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
)

var ErrHintChecksumMismatch = errors.New("hint was issued for another graph")

// EncodeHint. url-safe base64 of the graph checksum followed by the binary phantom node.
func EncodeHint(checksum uint64, p datastructure.PhantomNode) (string, error) {
	data, err := p.MarshalBinary()
	if err != nil {
		return "", err
	}
	buf := make([]byte, 8, 8+len(data))
	binary.LittleEndian.PutUint64(buf, checksum)
	buf = append(buf, data...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func DecodeHint(hint string, checksum uint64) (datastructure.PhantomNode, error) {
	var p datastructure.PhantomNode
	buf, err := base64.RawURLEncoding.DecodeString(hint)
	if err != nil {
		return p, err
	}
	if len(buf) < 8 {
		return p, datastructure.ErrInvalidPhantomNodeEncoding
	}
	if binary.LittleEndian.Uint64(buf[:8]) != checksum {
		return p, ErrHintChecksumMismatch
	}
	err = p.UnmarshalBinary(buf[8:])
	return p, err
}

// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol

import (
	"unicode/utf8"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
	"github.com/makiuchi-d/gozxing/qrcode/encoder"
)

var zxingLevels = [...]decoder.ErrorCorrectionLevel{
	L: decoder.ErrorCorrectionLevel_L,
	M: decoder.ErrorCorrectionLevel_M,
	Q: decoder.ErrorCorrectionLevel_Q,
	H: decoder.ErrorCorrectionLevel_H,
}

// ZXing encodes with the gozxing port of ZXing, which splits the
// text into segments and chooses the mask pattern.  Text outside
// ASCII is encoded as UTF-8 with an ECI segment.
type ZXing struct{}

// Encode implements Encoder.
func (ZXing) Encode(text string, l Level, version int) ([][]bool, error) {
	if err := check(l, version); err != nil {
		return nil, err
	}
	hints := make(map[gozxing.EncodeHintType]interface{})
	if version != 0 {
		hints[gozxing.EncodeHintType_QR_VERSION] = version
	}
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			hints[gozxing.EncodeHintType_CHARACTER_SET] = "UTF-8"
			break
		}
	}
	c, err := encoder.Encoder_encode(text, zxingLevels[l], hints)
	if err != nil {
		return nil, err
	}
	m := c.GetMatrix()
	return modules(m.GetWidth(), func(x, y int) bool {
		return m.Get(x, y) == 1
	}), nil
}

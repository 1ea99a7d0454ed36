package idcard

import "strings"

// findNameLine scans lines top to bottom for the first one matching the
// layout's tolerant "Name" label pattern. The value start x is the right
// edge of the separator word when one exists, otherwise 25% into the line
// box (where label/value layouts typically place the value). A miss is an
// expected outcome, not an error.
func (l CardLayout) findNameLine(lines []RecognizedLine) (NameLocation, bool) {
	for i, line := range lines {
		if l.NameLabel == nil || !l.NameLabel.MatchString(line.Text) {
			continue
		}
		loc := NameLocation{LineIndex: i, LineBox: line.Box}
		loc.ValueStartX = -1
		for _, w := range line.Words {
			if strings.ContainsAny(w.Text, ":;") {
				loc.ValueStartX = w.Box.X1
				break
			}
		}
		if loc.ValueStartX < 0 {
			loc.ValueStartX = line.Box.X0 + line.Box.Width()/4
		}
		return loc, true
	}
	return NameLocation{}, false
}

// planCrop computes a padded rectangle isolating the name value. Vertical
// padding is max(0.3×lineHeight, 8px). When the following line is not
// itself a field label and carries real text, the crop extends down over it
// to catch names wrapped onto a second printed line. Horizontally the crop
// runs from the value start to the right edge: card layouts place nothing
// that must be excluded further right.
func (l CardLayout) planCrop(lines []RecognizedLine, loc NameLocation, bufferWidth int) CropRegion {
	box := loc.LineBox
	pad := int(0.3 * float64(box.Height()))
	if pad < 8 {
		pad = 8
	}
	top := box.Y0 - pad
	if top < 0 {
		top = 0
	}
	bottom := box.Y1 + pad

	if next := loc.LineIndex + 1; next < len(lines) {
		nl := lines[next]
		if len(strings.TrimSpace(nl.Text)) >= 3 && (l.FieldLabel == nil || !l.FieldLabel.MatchString(nl.Text)) {
			bottom = nl.Box.Y1 + pad
		}
	}

	x := loc.ValueStartX
	if x < 0 {
		x = 0
	}
	return CropRegion{X: x, Y: top, W: bufferWidth - x, H: bottom - top}
}

package view

// viewport tracks which document lines are on screen.
type viewport struct {
	top    int
	height int
	margin int
}

func newViewport(height, margin int) viewport {
	return viewport{height: max(height, 1), margin: max(margin, 0)}
}

func (v *viewport) resize(height int) {
	v.height = max(height, 1)
}

// bottom returns the line after the last visible one.
func (v *viewport) bottom() int {
	return v.top + v.height
}

// follow scrolls the minimum amount that keeps line inside the scroll
// margins, or at least on screen when the viewport is too small for them.
func (v *viewport) follow(line, lineCount int) {
	margin := v.margin
	if 2*margin >= v.height {
		margin = (v.height - 1) / 2
	}
	if line-margin < v.top {
		v.top = line - margin
	}
	if line+margin >= v.bottom() {
		v.top = line + margin - v.height + 1
	}
	if maxTop := lineCount - v.height; v.top > maxTop {
		v.top = maxTop
	}
	if v.top < 0 {
		v.top = 0
	}
}

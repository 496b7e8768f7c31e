package preview

// Fit returns the largest size with the aspect ratio of imgW×imgH that fits
// inside availW×availH. The height is clamped first and then the width, each
// time scaling the other side with truncating division. A side truncated to
// zero is raised to one. Callers rendering to a terminal double imgW because
// character cells are about twice as tall as they are wide.
//
// All arguments must be positive; otherwise Fit returns (0, 0).
func Fit(imgW, imgH, availW, availH int) (w, h int) {
	if imgW < 1 || imgH < 1 || availW < 1 || availH < 1 {
		return 0, 0
	}

	w, h = imgW, imgH

	// Too tall, squash it
	if h > availH {
		w, h = w*availH/h, availH
	}

	// Too wide, squish it
	if w > availW {
		w, h = availW, h*availW/w
	}

	return max(w, 1), max(h, 1)
}

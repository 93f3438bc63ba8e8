package scraper

// Resize applies a client-driven terminal resize (§4.1 "Resize"). Buffer
// height (the fixed scrollback capacity the Scraper was constructed
// with) never changes — only the buffer's column count and the window's
// visible row count do.
//
// If the window was pinned to the buffer's bottom edge, or the new
// window height would overflow past the buffer's bottom, the window is
// re-anchored so its bottom edge lands on the buffer's last row (the
// "bottom-pin" behaviour real console clients expect from a resize).
func (s *Scraper) Resize(cols, rows int) error {
	if err := s.callFreeze(); err != nil {
		return err
	}
	defer s.callUnfreeze()

	bufHeight := s.grid.Height()
	oldTop := s.grid.Window.Top

	bottomPinned := s.grid.Window.Top+s.grid.Window.Height >= bufHeight
	overflow := s.grid.Window.Top+rows > bufHeight

	if bottomPinned || overflow {
		newTop := bufHeight - rows
		if newTop < 0 {
			newTop = 0
		}
		s.grid.Window.Top = newTop
	}
	s.grid.Window.Height = rows

	if s.dirtyWindowTop != -1 && s.dirtyWindowTop < oldTop {
		s.dirtyLineCount = s.grid.Window.Top + s.grid.Window.Height
	}

	if err := s.grid.Resize(cols, bufHeight); err != nil {
		return err
	}

	if s.scrapedLineCount > s.grid.Window.Top+s.scrolledCount {
		s.scrapedLineCount = s.grid.Window.Top + s.scrolledCount
	}

	return nil
}

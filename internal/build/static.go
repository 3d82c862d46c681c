package build

import "git.home.luguber.info/inful/sitebuilder/internal/entry"

// staticEntry emits the copy instructions for an entry matched by a static
// mapping. outPath is the output path of its parent directory.
func (w *walk) staticEntry(e *entry.Entry, outPath string, sp staticPath) {
	mirrored := outputPath(outPath, e.Name)
	if !e.IsDir() {
		switch {
		case sp.rename != nil:
			w.appendStatic(e, sp.rename(mirrored))
		case sp.dest != "":
			w.appendStatic(e, sp.dest)
		default:
			w.appendStatic(e, mirrored)
		}
		return
	}

	root := mirrored
	if sp.dest != "" {
		root = sp.dest
	}
	w.collectStatic(e, root, sp.rename)
}

// collectStatic emits every file below dir with destinations rooted at dest.
// Skip rules of the walker apply; structural filters do not.
func (w *walk) collectStatic(dir *entry.Entry, dest string, rename func(string) string) {
	for _, child := range dir.Children {
		if w.s.isIgnored(child) {
			continue
		}
		target := outputPath(dest, child.Name)
		if child.IsDir() {
			w.collectStatic(child, target, rename)
			continue
		}
		if rename != nil {
			target = rename(target)
		}
		w.appendStatic(child, target)
	}
}

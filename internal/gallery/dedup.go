package gallery

import "github.com/handiism/static-gallery/internal/model"

// Deduplicate makes sure identical images are rendered at most once per
// run and returns the number of images that now reference another one.
//
// Backgrounds and pictures are grouped separately since they produce
// different artifacts. Within a group the first image in collection order is
// canonical. If it is already rendered every other member simply becomes a
// reference to it. Otherwise it stays the only member that renders and the
// others take over its source path and stop rendering.
func (g *Gallery) Deduplicate() int {
	type group struct {
		members []*model.Image
	}

	var order []*group
	backgrounds := map[uint64]*group{}
	pictures := map[uint64]*group{}

	add := func(groups map[uint64]*group, img *model.Image) {
		grp, ok := groups[img.Identity]
		if !ok {
			grp = &group{}
			groups[img.Identity] = grp
			order = append(order, grp)
		}
		grp.members = append(grp.members, img)
	}

	for _, col := range g.OrderedCollections() {
		for i := range col.Backgrounds {
			add(backgrounds, &col.Backgrounds[i])
		}
		for i := range col.Pictures {
			add(pictures, &col.Pictures[i].Image)
		}
	}

	logger := g.logger()
	rewritten := 0
	for _, grp := range order {
		if len(grp.members) < 2 {
			continue
		}

		canonical := grp.members[0]
		for _, m := range grp.members[1:] {
			if canonical.SourcePath != "" {
				m.SourcePath = canonical.SourcePath
			}
			m.NeedsRender = false
			rewritten++
		}

		logger.Info("found duplicates",
			"identity", canonical.Identity,
			"source", canonical.SourcePath,
			"copies", len(grp.members)-1,
		)
	}

	return rewritten
}

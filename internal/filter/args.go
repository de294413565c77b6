package filter

// Args mirrors the command-line filter flags.
type Args struct {
	Difficulty   string
	Tags         []string
	MatchAllTags bool
	ExcludeTags  []string
}

// FromArgs builds a filter from command-line flags. It returns nil when no
// flag is set, the single filter when one is set, and a composite otherwise.
func FromArgs(args Args) (Filter, error) {
	var filters []Filter
	if args.Difficulty != "" {
		f, err := Difficulty(args.Difficulty)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	if len(args.Tags) > 0 {
		filters = append(filters, Tag(args.Tags, args.MatchAllTags, false))
	}
	if len(args.ExcludeTags) > 0 {
		filters = append(filters, Tag(args.ExcludeTags, false, true))
	}
	switch len(filters) {
	case 0:
		return nil, nil
	case 1:
		return filters[0], nil
	default:
		return Composite(filters...), nil
	}
}

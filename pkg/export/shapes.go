package export

// The detector chain, in match order. Each detector claims one of the export
// shapes the platform collectors are known to emit.

// detectAuthorPostList claims arrays whose first element carries an author
// object (twitter-style scrapes). Each item is a post; the first author seen
// becomes the profile.
func detectAuthorPostList(_ *Normalizer, node any, _ string) (Bundle, bool) {
	items, ok := node.([]any)
	if !ok || len(items) == 0 {
		return Bundle{}, false
	}

	first, ok := items[0].(map[string]any)
	if !ok {
		return Bundle{}, false
	}

	author, ok := first["author"].(map[string]any)
	if !ok {
		return Bundle{}, false
	}

	bundle := Bundle{Profile: parseProfile(author)}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		bundle.Posts = append(bundle.Posts, parsePost(m))
	}

	bundle.Bio = bioOf(author)
	return bundle, true
}

// detectProfileWithPostsList claims arrays whose first element is a profile
// object carrying a latestPosts array (instagram-style scrapes).
func detectProfileWithPostsList(_ *Normalizer, node any, _ string) (Bundle, bool) {
	items, ok := node.([]any)
	if !ok || len(items) == 0 {
		return Bundle{}, false
	}

	first, ok := items[0].(map[string]any)
	if !ok {
		return Bundle{}, false
	}

	latest, ok := first["latestPosts"].([]any)
	if !ok {
		return Bundle{}, false
	}

	bundle := Bundle{Profile: parseProfile(first), Bio: bioOf(first)}
	for _, item := range latest {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		bundle.Posts = append(bundle.Posts, parsePost(m))
	}

	return bundle, true
}

// detectBarePostList claims any remaining array of objects and parses each
// element directly as a post. No profile is available in this shape.
func detectBarePostList(_ *Normalizer, node any, _ string) (Bundle, bool) {
	items, ok := node.([]any)
	if !ok || len(items) == 0 {
		return Bundle{}, false
	}

	if _, ok := items[0].(map[string]any); !ok {
		return Bundle{}, false
	}

	var bundle Bundle
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		bundle.Posts = append(bundle.Posts, parsePost(m))
	}

	return bundle, true
}

// detectDirectProfile claims objects that look like a profile (username,
// name, or fullName present). Posts are populated from latestPosts when the
// export carries them inline.
func detectDirectProfile(_ *Normalizer, node any, _ string) (Bundle, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return Bundle{}, false
	}

	if !hasAny(m, "username", "name", "fullName") {
		return Bundle{}, false
	}

	bundle := Bundle{Profile: parseProfile(m), Bio: bioOf(m)}
	if latest, ok := m["latestPosts"].([]any); ok {
		for _, item := range latest {
			pm, ok := item.(map[string]any)
			if !ok {
				continue
			}
			bundle.Posts = append(bundle.Posts, parsePost(pm))
		}
	}

	return bundle, true
}

// detectDataEnvelope claims objects wrapping the payload in a data array and
// recurses into that array with the same platform tag.
func detectDataEnvelope(n *Normalizer, node any, platform string) (Bundle, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return Bundle{}, false
	}

	data, ok := m["data"].([]any)
	if !ok {
		return Bundle{}, false
	}

	return n.normalizeNode(data, platform), true
}

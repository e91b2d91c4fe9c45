package query

// Account fields that never leave the boundary, or that would recurse when an
// account is embedded into another document.
var accountHidden = []string{PasswordField, "active_ips", "posts", "followers", "following", "created_at"}

// MinAccountColumns is the projection column list, in schema order.
var MinAccountColumns = []string{"user_id", "email", "username", "bio", "profile_img_url"}

// MinAccounts selects the reduced account projection, filtered by preds.
func MinAccounts(preds ...Predicate) Pipeline {
	p := New(Users)
	for _, pred := range preds {
		p = p.Then(Match(pred))
	}
	return p.Then(Project(accountHidden...))
}

// HydratedPosts selects posts with the owner flattened into a sub-document
// and likers expanded to projections. Extra stages run before the joins.
func HydratedPosts(stages ...Stage) Pipeline {
	return New(Posts).
		Then(stages...).
		Then(
			JoinFirst("author_id", MinAccounts(), "owner"),
			JoinMany("likes", MinAccounts(), "likes"),
			Project(),
		)
}

// HydratedAccount selects one account with its posts hydrated one level deep
// and its follow edges expanded to projections.
func HydratedAccount(id string) Pipeline {
	return New(Users).Then(
		MatchByID(id),
		JoinMany("posts", HydratedPosts(), "posts"),
		JoinMany("followers", MinAccounts(), "followers"),
		JoinMany("following", MinAccounts(), "following"),
		Project(PasswordField, "active_ips", "created_at"),
	)
}

// Package model holds the domain objects of the photo service: sets,
// photos, users, comments and tags.
//
// Each type is a thin wrapper around a mapper.Object with a fixed schema.
// Finders build objects from a remote call:
//
//	sets, err := model.FindSetsByUserID(ctx, client, "12345@N01", nil)
//	for _, set := range sets {
//		fmt.Println(set.Title(), set.Count())
//	}
//
// Fields missing from a listing response (a set's owner, a user's profile,
// a photo's description and tags) are fetched on first read and kept for
// the lifetime of the object. Accessors that take api.Options, such as
// Set.User and Set.PrimaryPhoto, remember their result per distinct option
// set.
//
// Objects found with explicit credentials ("auth_token", "api_key") keep
// using them for every follow-up call.
package model

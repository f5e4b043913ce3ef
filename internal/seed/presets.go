package seed

import (
	"log"

	"inkwell/internal/models"
)

// Demo populates the database with a small believable blog: an admin, a
// handful of readers, posts with comments, and a scattering of likes.
func (f *Factory) Demo(userCount, postCount int) error {
	admin, err := f.CreateUser(func(u *models.User) {
		u.Name = "Site Admin"
		u.Email = "admin@example.com"
		u.IsAdmin = true
	})
	if err != nil {
		return err
	}

	users := []*models.User{admin}
	for i := 1; i < userCount; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}

	for i := 0; i < postCount; i++ {
		author := users[f.rnd.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return err
		}

		for j := 0; j < f.rnd.Intn(4); j++ {
			commenter := users[f.rnd.Intn(len(users))]
			if _, err := f.CreateComment(commenter, post); err != nil {
				return err
			}
		}

		for _, user := range users {
			if f.rnd.Intn(3) == 0 {
				if err := f.CreateLike(user, post); err != nil {
					return err
				}
			}
		}
	}

	log.Printf("seeded %d users and %d posts", len(users), postCount)
	return nil
}

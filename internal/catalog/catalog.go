// Package catalog holds the static movie list served by the site. There is
// no lifecycle: the catalog is fixed at startup and shared read-only.
package catalog

import (
	"errors"

	"github.com/NagasuriRaviTeja/movie-magic/internal/model"
)

// ErrMovieNotFound is returned when a title is not in the catalog. Handlers
// translate it into a flash message and a redirect to /home.
var ErrMovieNotFound = errors.New("movie not found")

type Catalog struct {
	movies []model.Movie
}

// Default returns the catalog currently on sale.
func Default() *Catalog {
	return New([]model.Movie{
		{Title: "KUBERA", Price: 350, Image: "kubera.jpg"},
		{Title: "DEVARA", Price: 300, Image: "devara.jpg"},
		{Title: "ANIMAL", Price: 300, Image: "animal.jpg"},
	})
}

func New(movies []model.Movie) *Catalog { return &Catalog{movies: movies} }

// Movies returns all catalog entries in display order.
func (c *Catalog) Movies() []model.Movie { return c.movies }

// FindByTitle looks a movie up by its exact title.
func (c *Catalog) FindByTitle(title string) (model.Movie, error) {
	for _, m := range c.movies {
		if m.Title == title {
			return m, nil
		}
	}
	return model.Movie{}, ErrMovieNotFound
}

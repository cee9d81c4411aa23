package moviedb

// Movie is a catalog entry. Director, genre and actor references are
// server-resolved display names, not identifiers.
type Movie struct {
	ID          int      `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	ReleaseYear int      `json:"releaseYear"`
	Plot        string   `json:"plot"`
	Runtime     int      `json:"runtime"`
	PosterURL   string   `json:"posterUrl"`
	Director    string   `json:"director"`
	Genres      []string `json:"genres"`
	Actors      []string `json:"actors"`
}

// MovieInput is the payload for creating a movie
type MovieInput struct {
	Title       string   `json:"title"`
	ReleaseYear int      `json:"releaseYear,omitempty"`
	Plot        string   `json:"plot,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	PosterURL   string   `json:"posterUrl,omitempty"`
	Director    string   `json:"director,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Actors      []string `json:"actors,omitempty"`
}

// MovieUpdate is a partial update. Nil fields are omitted from the request
// and left untouched by the server.
type MovieUpdate struct {
	Title       *string   `json:"title,omitempty"`
	ReleaseYear *int      `json:"releaseYear,omitempty"`
	Plot        *string   `json:"plot,omitempty"`
	Runtime     *int      `json:"runtime,omitempty"`
	PosterURL   *string   `json:"posterUrl,omitempty"`
	Director    *string   `json:"director,omitempty"`
	Genres      *[]string `json:"genres,omitempty"`
	Actors      *[]string `json:"actors,omitempty"`
}

// Person is an actor or director
type Person struct {
	ID          int    `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	DateOfBirth string `json:"dateOfBirth"`
	Biography   string `json:"biography"`
}

// PersonInput is the payload for creating an actor or director
type PersonInput struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Biography   string `json:"biography,omitempty"`
}

// PersonUpdate is a partial update for an actor or director
type PersonUpdate struct {
	Name        *string `json:"name,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	Biography   *string `json:"biography,omitempty"`
}

// Genre is a catalog category
type Genre struct {
	ID          int    `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// GenreInput is the payload for creating a genre
type GenreInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// GenreUpdate is a partial update for a genre
type GenreUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

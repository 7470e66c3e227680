package models

// Resource names the kind of upstream document being cached. Used as a metrics label.
type Resource string

const (
	ResourceFilmList  Resource = "film_list"
	ResourceFilm      Resource = "film"
	ResourceCharacter Resource = "character"
)

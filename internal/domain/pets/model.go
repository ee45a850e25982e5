package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, bird, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesBird  Species = "bird"
	SpeciesOther Species = "other"
)

func ParseSpecies(s string) (Species, bool) {
	switch Species(s) {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesOther:
		return Species(s), true
	}
	return "", false
}

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func ParseSex(s string) (Sex, bool) {
	switch Sex(s) {
	case "":
		return SexUnknown, true
	case SexMale, SexFemale, SexUnknown:
		return Sex(s), true
	}
	return "", false
}

// Pet es la mascota registrada; un reporte de pérdida la referencia.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex

	BirthDate *time.Time
	PhotoURL  string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

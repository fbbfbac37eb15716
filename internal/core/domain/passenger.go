package domain

// Sex values accepted on a passenger record.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Embarkation ports of the 1912 crossing.
const (
	EmbarkedCherbourg   = "C"
	EmbarkedSouthampton = "S"
	EmbarkedQueenstown  = "Q"
)

// ValidSex reports whether sex is an accepted value (already lowercased).
func ValidSex(sex string) bool {
	return sex == SexMale || sex == SexFemale
}

// ValidEmbarked reports whether port is an accepted value (already uppercased).
func ValidEmbarked(port string) bool {
	return port == EmbarkedCherbourg || port == EmbarkedSouthampton || port == EmbarkedQueenstown
}

// Passenger is the resource guarded by the auth core. Age, Fare and Embarked
// are optional in the source dataset, hence pointers.
type Passenger struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Sex      string   `json:"sex"`
	Age      *float64 `json:"age"`
	Survived bool     `json:"survived"`
	Pclass   int      `json:"pclass"`
	Fare     *float64 `json:"fare"`
	Embarked *string  `json:"embarked"`
}

package entity

// AnimalInformation is an association's headcount of the animals it cares for
type AnimalInformation struct {
	Meta
	AnimalType string `json:"animal_type"`

	AdultDogs      int `json:"adult_dogs"`
	Puppies        int `json:"puppies"`
	SeniorSickDogs int `json:"senior_sick_dogs"`

	AdultCats      int `json:"adult_cats"`
	Kittens        int `json:"kittens"`
	SeniorSickCats int `json:"senior_sick_cats"`

	PersonDetails string `json:"person_details"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
}

func (*AnimalInformation) RecordKind() Kind { return KindAnimalInformation }

// FoodDemand is a request for food placed by a person or a shelter
type FoodDemand struct {
	Meta
	OrderBy string `json:"order_by"`

	PersonDetails string `json:"person_details"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`

	ContactedAnimalShelter string `json:"contacted_animal_shelter"`
	ShelterName            string `json:"shelter_name"`
	AnimalShelterStatus    string `json:"animal_shelter_status"`

	Notes string `json:"notes"`
}

func (*FoodDemand) RecordKind() Kind { return KindFoodDemand }

// PersonDemand is a request raised by an association contact person
type PersonDemand struct {
	Meta
	PersonDetails string `json:"person_details"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Description   string `json:"description"`
}

func (*PersonDemand) RecordKind() Kind { return KindPersonDemand }

package directoryRepo

import "mindnest/models"

// SeedPsychologists is the sample directory used by the memory backend.
func SeedPsychologists() []models.Psychologist {
	return []models.Psychologist{
		{
			ID: "psy-ananya", Name: "Dr. Ananya Rao", Title: "Clinical Psychologist",
			Email:           "ananya.rao@mindnest.example",
			Specializations: []string{"Anxiety", "Depression"},
			Price:           450, ExperienceYears: 8, Languages: []string{"English", "Hindi"},
			Bio:    "CBT-focused practice for anxiety and mood disorders.",
			Rating: 4.8,
		},
		{
			ID: "psy-kabir", Name: "Kabir Mehta", Title: "Counselling Psychologist",
			Email:           "kabir.mehta@mindnest.example",
			Specializations: []string{"Relationships", "Stress"},
			Price:           800, ExperienceYears: 5, Languages: []string{"English"},
			Bio:    "Couples and workplace stress counselling.",
			Rating: 4.6,
		},
		{
			ID: "psy-meera", Name: "Dr. Meera Iyer", Title: "Psychiatrist",
			Email:           "meera.iyer@mindnest.example",
			Specializations: []string{"Anxiety", "Trauma"},
			Price:           1500, ExperienceYears: 14, Languages: []string{"English", "Tamil"},
			Bio:    "Trauma-informed care and medication management.",
			Rating: 4.9,
		},
		{
			ID: "psy-rohan", Name: "Rohan Das", Title: "Child Psychologist",
			Email:           "rohan.das@mindnest.example",
			Specializations: []string{"anxiety", "ADHD"},
			Price:           350, ExperienceYears: 3, Languages: []string{"English", "Bengali"},
			Bio:    "Play therapy for children and adolescents.",
			Rating: 4.4,
		},
	}
}

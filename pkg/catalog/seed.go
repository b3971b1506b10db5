package catalog

// seedIngredients is the canonical material set loaded into an empty
// catalog on first open. CAS numbers and logP values follow published
// fragrance material references; note types reflect the conventional
// volatility classes.
var seedIngredients = []Ingredient{
	// Top notes: small, volatile molecules that open a composition.
	{Name: "Limonene", CAS: "5989-27-5", Family: "citrus", NoteType: NoteTop, LogP: 4.57, Descriptors: []string{"citrus", "fresh", "zesty"}},
	{Name: "Linalool", CAS: "78-70-6", Family: "floral", NoteType: NoteTop, LogP: 2.97, Descriptors: []string{"floral", "lavender", "soft"}},
	{Name: "Citral", CAS: "5392-40-5", Family: "citrus", NoteType: NoteTop, LogP: 3.45, Descriptors: []string{"lemon", "sharp", "bright"}},
	{Name: "Bergamot Oil", CAS: "8007-75-8", Family: "citrus", NoteType: NoteTop, LogP: 3.90, Descriptors: []string{"bergamot", "bright", "tea"}},
	{Name: "Cis-3-Hexenol", CAS: "928-96-1", Family: "green", NoteType: NoteTop, LogP: 1.61, Descriptors: []string{"green", "grass", "leafy"}},
	{Name: "Eucalyptol", CAS: "470-82-6", Family: "aromatic", NoteType: NoteTop, LogP: 2.74, Descriptors: []string{"camphor", "cool", "clean"}},

	// Heart notes: the body of the composition.
	{Name: "Geraniol", CAS: "106-24-1", Family: "floral", NoteType: NoteHeart, LogP: 3.56, Descriptors: []string{"rose", "sweet", "fruity"}},
	{Name: "Citronellol", CAS: "106-22-9", Family: "floral", NoteType: NoteHeart, LogP: 3.91, Descriptors: []string{"rose", "fresh", "waxy"}},
	{Name: "Phenylethyl Alcohol", CAS: "60-12-8", Family: "floral", NoteType: NoteHeart, LogP: 1.36, Descriptors: []string{"rose", "honey", "soft"}},
	{Name: "Hedione", CAS: "24851-98-7", Family: "floral", NoteType: NoteHeart, LogP: 2.98, Descriptors: []string{"jasmine", "airy", "radiant"}},
	{Name: "Eugenol", CAS: "97-53-0", Family: "spicy", NoteType: NoteHeart, LogP: 2.27, Descriptors: []string{"clove", "warm", "spicy"}},
	{Name: "Alpha-Ionone", CAS: "127-41-3", Family: "floral", NoteType: NoteHeart, LogP: 3.85, Descriptors: []string{"violet", "powdery", "woody"}},
	{Name: "Methyl Anthranilate", CAS: "134-20-3", Family: "floral", NoteType: NoteHeart, LogP: 1.88, Descriptors: []string{"grape", "orange blossom", "sweet"}},
	{Name: "Hexyl Cinnamal", CAS: "101-86-0", Family: "floral", NoteType: NoteHeart, LogP: 4.82, Descriptors: []string{"jasmine", "waxy", "green"}},
	{Name: "Benzyl Acetate", CAS: "140-11-4", Family: "floral", NoteType: NoteHeart, LogP: 1.96, Descriptors: []string{"jasmine", "fruity", "sweet"}},

	// Base notes: heavy, persistent materials that fix the drydown.
	{Name: "Vanillin", CAS: "121-33-5", Family: "gourmand", NoteType: NoteBase, LogP: 1.21, Descriptors: []string{"vanilla", "sweet", "creamy"}},
	{Name: "Ethyl Maltol", CAS: "4940-11-8", Family: "gourmand", NoteType: NoteBase, LogP: 0.61, Descriptors: []string{"caramel", "sweet", "candied"}},
	{Name: "Coumarin", CAS: "91-64-5", Family: "gourmand", NoteType: NoteBase, LogP: 1.39, Descriptors: []string{"hay", "almond", "sweet"}},
	{Name: "Iso E Super", CAS: "54464-57-2", Family: "woody", NoteType: NoteBase, LogP: 5.70, Descriptors: []string{"cedar", "smooth", "velvety"}},
	{Name: "Ambroxide", CAS: "6790-58-5", Family: "amber", NoteType: NoteBase, LogP: 5.32, Descriptors: []string{"ambergris", "warm", "mineral"}},
	{Name: "Galaxolide", CAS: "1222-05-5", Family: "musk", NoteType: NoteBase, LogP: 5.90, Descriptors: []string{"musk", "clean", "powdery"}},
	{Name: "Cedrol", CAS: "77-53-2", Family: "woody", NoteType: NoteBase, LogP: 4.50, Descriptors: []string{"cedarwood", "dry", "soft"}},
	{Name: "Patchoulol", CAS: "5986-55-0", Family: "woody", NoteType: NoteBase, LogP: 4.76, Descriptors: []string{"patchouli", "earthy", "dark"}},
	{Name: "Benzyl Salicylate", CAS: "118-58-1", Family: "balsamic", NoteType: NoteBase, LogP: 4.31, Descriptors: []string{"balsamic", "floral", "faint"}},
}

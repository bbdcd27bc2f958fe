// Package geo holds the administrative geography used to scope members and events.
package geo

// Regions lists the administrative regions in display order.
var Regions = []string{
	"Auvergne-Rhône-Alpes",
	"Bourgogne-Franche-Comté",
	"Bretagne",
	"Centre-Val de Loire",
	"Corse",
	"Grand Est",
	"Hauts-de-France",
	"Île-de-France",
	"Normandie",
	"Nouvelle-Aquitaine",
	"Occitanie",
	"Pays de la Loire",
	"Provence-Alpes-Côte d'Azur",
	"Guadeloupe",
	"Martinique",
	"Guyane",
	"La Réunion",
	"Mayotte",
}

var departments = map[string][]string{
	"Auvergne-Rhône-Alpes":       {"Ain", "Allier", "Ardèche", "Cantal", "Drôme", "Isère", "Loire", "Haute-Loire", "Puy-de-Dôme", "Rhône", "Savoie", "Haute-Savoie"},
	"Bourgogne-Franche-Comté":    {"Côte-d'Or", "Doubs", "Jura", "Nièvre", "Haute-Saône", "Saône-et-Loire", "Yonne", "Territoire de Belfort"},
	"Bretagne":                   {"Côtes-d'Armor", "Finistère", "Ille-et-Vilaine", "Morbihan"},
	"Centre-Val de Loire":        {"Cher", "Eure-et-Loir", "Indre", "Indre-et-Loire", "Loir-et-Cher", "Loiret"},
	"Corse":                      {"Corse-du-Sud", "Haute-Corse"},
	"Grand Est":                  {"Ardennes", "Aube", "Marne", "Haute-Marne", "Meurthe-et-Moselle", "Meuse", "Moselle", "Bas-Rhin", "Haut-Rhin", "Vosges"},
	"Hauts-de-France":            {"Aisne", "Nord", "Oise", "Pas-de-Calais", "Somme"},
	"Île-de-France":              {"Paris", "Seine-et-Marne", "Yvelines", "Essonne", "Hauts-de-Seine", "Seine-Saint-Denis", "Val-de-Marne", "Val-d'Oise"},
	"Normandie":                  {"Calvados", "Eure", "Manche", "Orne", "Seine-Maritime"},
	"Nouvelle-Aquitaine":         {"Charente", "Charente-Maritime", "Corrèze", "Creuse", "Dordogne", "Gironde", "Landes", "Lot-et-Garonne", "Pyrénées-Atlantiques", "Deux-Sèvres", "Vienne", "Haute-Vienne"},
	"Occitanie":                  {"Ariège", "Aude", "Aveyron", "Gard", "Haute-Garonne", "Gers", "Hérault", "Lot", "Lozère", "Hautes-Pyrénées", "Pyrénées-Orientales", "Tarn", "Tarn-et-Garonne"},
	"Pays de la Loire":           {"Loire-Atlantique", "Maine-et-Loire", "Mayenne", "Sarthe", "Vendée"},
	"Provence-Alpes-Côte d'Azur": {"Alpes-de-Haute-Provence", "Hautes-Alpes", "Alpes-Maritimes", "Bouches-du-Rhône", "Var", "Vaucluse"},
	"Guadeloupe":                 {"Guadeloupe"},
	"Martinique":                 {"Martinique"},
	"Guyane":                     {"Guyane"},
	"La Réunion":                 {"La Réunion"},
	"Mayotte":                    {"Mayotte"},
}

// ValidRegion reports whether region is one of the known regions.
func ValidRegion(region string) bool {
	_, ok := departments[region]
	return ok
}

// Departments returns the departments of a region, or nil for an unknown region.
func Departments(region string) []string {
	depts, ok := departments[region]
	if !ok {
		return nil
	}
	out := make([]string, len(depts))
	copy(out, depts)
	return out
}

// DepartmentBelongs reports whether department is empty or part of region.
func DepartmentBelongs(region, department string) bool {
	if department == "" {
		return true
	}
	for _, d := range departments[region] {
		if d == department {
			return true
		}
	}
	return false
}

// Package catalog holds the immutable periodic table used as the game board.
package catalog

import "strings"

// Category is a display grouping for an element cell.
type Category string

const (
	Nonmetal            Category = "Nonmetal"
	NobleGas            Category = "Noble Gas"
	AlkaliMetal         Category = "Alkali Metal"
	AlkalineEarthMetal  Category = "Alkaline Earth Metal"
	Metalloid           Category = "Metalloid"
	Halogen             Category = "Halogen"
	PostTransitionMetal Category = "Post-Transition Metal"
	TransitionMetal     Category = "Transition Metal"
	Lanthanide          Category = "Lanthanide"
	Actinide            Category = "Actinide"
)

// Size is the number of cells on the board.
const Size = 118

// Grid dimensions including the detached lanthanide (row 9) and actinide (row 10) rows.
const (
	Rows = 10
	Cols = 18
)

// Element is one cell of the table. Valence is the highest-energy subshell
// notation and serves as the answer key for the cell.
type Element struct {
	Number   int
	Symbol   string
	Name     string
	Valence  string
	Row      int
	Col      int
	Category Category
}

// Matches reports whether answer equals the valence notation, ignoring case
// and surrounding whitespace.
func (e Element) Matches(answer string) bool {
	return strings.ToLower(strings.TrimSpace(answer)) == strings.ToLower(e.Valence)
}

// Slug is a css-friendly form of the category.
func (c Category) Slug() string {
	return strings.ToLower(strings.ReplaceAll(string(c), " ", "-"))
}

// Lookup returns the element with the given atomic number.
func Lookup(number int) (Element, bool) {
	if number < 1 || number > Size {
		return Element{}, false
	}
	return elements[number-1], true
}

// All returns a copy of the catalog ordered by atomic number.
func All() []Element {
	out := make([]Element, len(elements))
	copy(out, elements[:])
	return out
}

// Categories lists the categories in legend order.
func Categories() []Category {
	return []Category{
		AlkaliMetal, AlkalineEarthMetal, TransitionMetal, PostTransitionMetal,
		Metalloid, Nonmetal, Halogen, NobleGas, Lanthanide, Actinide,
	}
}

var elements = [Size]Element{
	{1, "H", "Hydrogen", "1s1", 1, 1, Nonmetal},
	{2, "He", "Helium", "1s2", 1, 18, NobleGas},
	{3, "Li", "Lithium", "2s1", 2, 1, AlkaliMetal},
	{4, "Be", "Beryllium", "2s2", 2, 2, AlkalineEarthMetal},
	{5, "B", "Boron", "2p1", 2, 13, Metalloid},
	{6, "C", "Carbon", "2p2", 2, 14, Nonmetal},
	{7, "N", "Nitrogen", "2p3", 2, 15, Nonmetal},
	{8, "O", "Oxygen", "2p4", 2, 16, Nonmetal},
	{9, "F", "Fluorine", "2p5", 2, 17, Halogen},
	{10, "Ne", "Neon", "2p6", 2, 18, NobleGas},
	{11, "Na", "Sodium", "3s1", 3, 1, AlkaliMetal},
	{12, "Mg", "Magnesium", "3s2", 3, 2, AlkalineEarthMetal},
	{13, "Al", "Aluminium", "3p1", 3, 13, PostTransitionMetal},
	{14, "Si", "Silicon", "3p2", 3, 14, Metalloid},
	{15, "P", "Phosphorus", "3p3", 3, 15, Nonmetal},
	{16, "S", "Sulfur", "3p4", 3, 16, Nonmetal},
	{17, "Cl", "Chlorine", "3p5", 3, 17, Halogen},
	{18, "Ar", "Argon", "3p6", 3, 18, NobleGas},
	{19, "K", "Potassium", "4s1", 4, 1, AlkaliMetal},
	{20, "Ca", "Calcium", "4s2", 4, 2, AlkalineEarthMetal},
	{21, "Sc", "Scandium", "3d1", 4, 3, TransitionMetal},
	{22, "Ti", "Titanium", "3d2", 4, 4, TransitionMetal},
	{23, "V", "Vanadium", "3d3", 4, 5, TransitionMetal},
	{24, "Cr", "Chromium", "3d5", 4, 6, TransitionMetal},
	{25, "Mn", "Manganese", "3d5", 4, 7, TransitionMetal},
	{26, "Fe", "Iron", "3d6", 4, 8, TransitionMetal},
	{27, "Co", "Cobalt", "3d7", 4, 9, TransitionMetal},
	{28, "Ni", "Nickel", "3d8", 4, 10, TransitionMetal},
	{29, "Cu", "Copper", "3d10", 4, 11, TransitionMetal},
	{30, "Zn", "Zinc", "3d10", 4, 12, TransitionMetal},
	{31, "Ga", "Gallium", "4p1", 4, 13, PostTransitionMetal},
	{32, "Ge", "Germanium", "4p2", 4, 14, Metalloid},
	{33, "As", "Arsenic", "4p3", 4, 15, Metalloid},
	{34, "Se", "Selenium", "4p4", 4, 16, Nonmetal},
	{35, "Br", "Bromine", "4p5", 4, 17, Halogen},
	{36, "Kr", "Krypton", "4p6", 4, 18, NobleGas},
	{37, "Rb", "Rubidium", "5s1", 5, 1, AlkaliMetal},
	{38, "Sr", "Strontium", "5s2", 5, 2, AlkalineEarthMetal},
	{39, "Y", "Yttrium", "4d1", 5, 3, TransitionMetal},
	{40, "Zr", "Zirconium", "4d2", 5, 4, TransitionMetal},
	{41, "Nb", "Niobium", "4d4", 5, 5, TransitionMetal},
	{42, "Mo", "Molybdenum", "4d5", 5, 6, TransitionMetal},
	{43, "Tc", "Technetium", "4d5", 5, 7, TransitionMetal},
	{44, "Ru", "Ruthenium", "4d7", 5, 8, TransitionMetal},
	{45, "Rh", "Rhodium", "4d8", 5, 9, TransitionMetal},
	{46, "Pd", "Palladium", "4d10", 5, 10, TransitionMetal},
	{47, "Ag", "Silver", "4d10", 5, 11, TransitionMetal},
	{48, "Cd", "Cadmium", "4d10", 5, 12, TransitionMetal},
	{49, "In", "Indium", "5p1", 5, 13, PostTransitionMetal},
	{50, "Sn", "Tin", "5p2", 5, 14, PostTransitionMetal},
	{51, "Sb", "Antimony", "5p3", 5, 15, Metalloid},
	{52, "Te", "Tellurium", "5p4", 5, 16, Metalloid},
	{53, "I", "Iodine", "5p5", 5, 17, Halogen},
	{54, "Xe", "Xenon", "5p6", 5, 18, NobleGas},
	{55, "Cs", "Caesium", "6s1", 6, 1, AlkaliMetal},
	{56, "Ba", "Barium", "6s2", 6, 2, AlkalineEarthMetal},
	{57, "La", "Lanthanum", "5d1", 9, 4, Lanthanide},
	{58, "Ce", "Cerium", "4f1", 9, 5, Lanthanide},
	{59, "Pr", "Praseodymium", "4f3", 9, 6, Lanthanide},
	{60, "Nd", "Neodymium", "4f4", 9, 7, Lanthanide},
	{61, "Pm", "Promethium", "4f5", 9, 8, Lanthanide},
	{62, "Sm", "Samarium", "4f6", 9, 9, Lanthanide},
	{63, "Eu", "Europium", "4f7", 9, 10, Lanthanide},
	{64, "Gd", "Gadolinium", "5d1", 9, 11, Lanthanide},
	{65, "Tb", "Terbium", "4f9", 9, 12, Lanthanide},
	{66, "Dy", "Dysprosium", "4f10", 9, 13, Lanthanide},
	{67, "Ho", "Holmium", "4f11", 9, 14, Lanthanide},
	{68, "Er", "Erbium", "4f12", 9, 15, Lanthanide},
	{69, "Tm", "Thulium", "4f13", 9, 16, Lanthanide},
	{70, "Yb", "Ytterbium", "4f14", 9, 17, Lanthanide},
	{71, "Lu", "Lutetium", "5d1", 9, 18, Lanthanide},
	{72, "Hf", "Hafnium", "5d2", 6, 4, TransitionMetal},
	{73, "Ta", "Tantalum", "5d3", 6, 5, TransitionMetal},
	{74, "W", "Tungsten", "5d4", 6, 6, TransitionMetal},
	{75, "Re", "Rhenium", "5d5", 6, 7, TransitionMetal},
	{76, "Os", "Osmium", "5d6", 6, 8, TransitionMetal},
	{77, "Ir", "Iridium", "5d7", 6, 9, TransitionMetal},
	{78, "Pt", "Platinum", "5d9", 6, 10, TransitionMetal},
	{79, "Au", "Gold", "5d10", 6, 11, TransitionMetal},
	{80, "Hg", "Mercury", "5d10", 6, 12, TransitionMetal},
	{81, "Tl", "Thallium", "6p1", 6, 13, PostTransitionMetal},
	{82, "Pb", "Lead", "6p2", 6, 14, PostTransitionMetal},
	{83, "Bi", "Bismuth", "6p3", 6, 15, PostTransitionMetal},
	{84, "Po", "Polonium", "6p4", 6, 16, Metalloid},
	{85, "At", "Astatine", "6p5", 6, 17, Halogen},
	{86, "Rn", "Radon", "6p6", 6, 18, NobleGas},
	{87, "Fr", "Francium", "7s1", 7, 1, AlkaliMetal},
	{88, "Ra", "Radium", "7s2", 7, 2, AlkalineEarthMetal},
	{89, "Ac", "Actinium", "6d1", 10, 4, Actinide},
	{90, "Th", "Thorium", "6d2", 10, 5, Actinide},
	{91, "Pa", "Protactinium", "5f2", 10, 6, Actinide},
	{92, "U", "Uranium", "5f3", 10, 7, Actinide},
	{93, "Np", "Neptunium", "5f4", 10, 8, Actinide},
	{94, "Pu", "Plutonium", "5f6", 10, 9, Actinide},
	{95, "Am", "Americium", "5f7", 10, 10, Actinide},
	{96, "Cm", "Curium", "6d1", 10, 11, Actinide},
	{97, "Bk", "Berkelium", "5f9", 10, 12, Actinide},
	{98, "Cf", "Californium", "5f10", 10, 13, Actinide},
	{99, "Es", "Einsteinium", "5f11", 10, 14, Actinide},
	{100, "Fm", "Fermium", "5f12", 10, 15, Actinide},
	{101, "Md", "Mendelevium", "5f13", 10, 16, Actinide},
	{102, "No", "Nobelium", "5f14", 10, 17, Actinide},
	{103, "Lr", "Lawrencium", "6d1", 10, 18, Actinide},
	{104, "Rf", "Rutherfordium", "6d2", 7, 4, TransitionMetal},
	{105, "Db", "Dubnium", "6d3", 7, 5, TransitionMetal},
	{106, "Sg", "Seaborgium", "6d4", 7, 6, TransitionMetal},
	{107, "Bh", "Bohrium", "6d5", 7, 7, TransitionMetal},
	{108, "Hs", "Hassium", "6d6", 7, 8, TransitionMetal},
	{109, "Mt", "Meitnerium", "6d7", 7, 9, TransitionMetal},
	{110, "Ds", "Darmstadtium", "6d9", 7, 10, TransitionMetal},
	{111, "Rg", "Roentgenium", "6d10", 7, 11, TransitionMetal},
	{112, "Cn", "Copernicium", "6d10", 7, 12, TransitionMetal},
	{113, "Nh", "Nihonium", "7p1", 7, 13, PostTransitionMetal},
	{114, "Fl", "Flerovium", "7p2", 7, 14, PostTransitionMetal},
	{115, "Mc", "Moscovium", "7p3", 7, 15, PostTransitionMetal},
	{116, "Lv", "Livermorium", "7p4", 7, 16, PostTransitionMetal},
	{117, "Ts", "Tennessine", "7p5", 7, 17, Halogen},
	{118, "Og", "Oganesson", "7p6", 7, 18, NobleGas},
}

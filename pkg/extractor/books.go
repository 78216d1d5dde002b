package extractor

import "strings"

// Book is a canonical Protestant-canon book. Number is its 1-based position,
// which is how several providers address books.
type Book struct {
	Number  int
	Name    string
	Aliases []string
}

var books = []Book{
	{1, "Genesis", []string{"gen", "gn"}},
	{2, "Exodus", []string{"exod", "exo", "ex"}},
	{3, "Leviticus", []string{"lev", "lv"}},
	{4, "Numbers", []string{"num", "nm"}},
	{5, "Deuteronomy", []string{"deut", "deu", "dt"}},
	{6, "Joshua", []string{"josh", "jos"}},
	{7, "Judges", []string{"judg", "jdg"}},
	{8, "Ruth", []string{"rth"}},
	// Unnumbered names of split books ("Samuel", "Kings") resolve to the
	// first book of the pair.
	{9, "1 Samuel", []string{"1 sam", "1 sa", "i samuel", "first samuel", "samuel"}},
	{10, "2 Samuel", []string{"2 sam", "2 sa", "ii samuel", "second samuel"}},
	{11, "1 Kings", []string{"1 kgs", "1 ki", "i kings", "first kings", "kings"}},
	{12, "2 Kings", []string{"2 kgs", "2 ki", "ii kings", "second kings"}},
	{13, "1 Chronicles", []string{"1 chron", "1 chr", "i chronicles", "chronicles"}},
	{14, "2 Chronicles", []string{"2 chron", "2 chr", "ii chronicles"}},
	{15, "Ezra", []string{"ezr"}},
	{16, "Nehemiah", []string{"neh"}},
	{17, "Esther", []string{"esth", "est"}},
	{18, "Job", []string{"jb"}},
	{19, "Psalms", []string{"psalm", "psa", "ps", "pss"}},
	{20, "Proverbs", []string{"prov", "pro", "prv"}},
	{21, "Ecclesiastes", []string{"eccl", "ecc", "qoh"}},
	{22, "Song of Solomon", []string{"song of songs", "song", "sos", "canticles"}},
	{23, "Isaiah", []string{"isa"}},
	{24, "Jeremiah", []string{"jer"}},
	{25, "Lamentations", []string{"lam"}},
	{26, "Ezekiel", []string{"ezek", "eze"}},
	{27, "Daniel", []string{"dan", "dn"}},
	{28, "Hosea", []string{"hos"}},
	{29, "Joel", []string{"jl"}},
	{30, "Amos", nil},
	{31, "Obadiah", []string{"obad", "oba"}},
	{32, "Jonah", []string{"jon"}},
	{33, "Micah", []string{"mic"}},
	{34, "Nahum", []string{"nah"}},
	{35, "Habakkuk", []string{"hab"}},
	{36, "Zephaniah", []string{"zeph", "zep"}},
	{37, "Haggai", []string{"hag"}},
	{38, "Zechariah", []string{"zech", "zec"}},
	{39, "Malachi", []string{"mal"}},
	{40, "Matthew", []string{"matt", "mat", "mt"}},
	{41, "Mark", []string{"mrk", "mk"}},
	{42, "Luke", []string{"luk", "lk"}},
	{43, "John", []string{"jhn", "jn"}},
	{44, "Acts", []string{"act"}},
	{45, "Romans", []string{"rom", "rm"}},
	{46, "1 Corinthians", []string{"1 cor", "1 co", "i corinthians", "first corinthians", "corinthians"}},
	{47, "2 Corinthians", []string{"2 cor", "2 co", "ii corinthians", "second corinthians"}},
	{48, "Galatians", []string{"gal"}},
	{49, "Ephesians", []string{"eph"}},
	{50, "Philippians", []string{"phil", "php"}},
	{51, "Colossians", []string{"col"}},
	{52, "1 Thessalonians", []string{"1 thess", "1 th", "i thessalonians", "thessalonians"}},
	{53, "2 Thessalonians", []string{"2 thess", "2 th", "ii thessalonians"}},
	{54, "1 Timothy", []string{"1 tim", "1 ti", "i timothy", "timothy"}},
	{55, "2 Timothy", []string{"2 tim", "2 ti", "ii timothy"}},
	{56, "Titus", []string{"tit"}},
	{57, "Philemon", []string{"philem", "phm"}},
	{58, "Hebrews", []string{"heb"}},
	{59, "James", []string{"jas", "jm"}},
	{60, "1 Peter", []string{"1 pet", "1 pe", "i peter", "first peter", "peter"}},
	{61, "2 Peter", []string{"2 pet", "2 pe", "ii peter", "second peter"}},
	{62, "1 John", []string{"1 jn", "1 jhn", "i john", "first john"}},
	{63, "2 John", []string{"2 jn", "2 jhn", "ii john", "second john"}},
	{64, "3 John", []string{"3 jn", "3 jhn", "iii john", "third john"}},
	{65, "Jude", []string{"jud"}},
	{66, "Revelation", []string{"rev", "revelations", "rv"}},
}

// commonWords are names and aliases that are also everyday English words.
// In free text they only count as books when capitalised.
var commonWords = map[string]bool{
	"ex": true, "num": true, "numbers": true, "judges": true, "kings": true,
	"job": true, "pro": true, "song": true, "lam": true, "dan": true,
	"jon": true, "mat": true, "mark": true, "act": true, "acts": true,
	"rom": true, "gal": true, "col": true, "tit": true, "rev": true,
	"est": true, "hag": true, "mal": true, "jud": true, "jude": true,
}

var bookIndex = buildBookIndex()

func buildBookIndex() map[string]Book {
	idx := make(map[string]Book, len(books)*4)
	for _, b := range books {
		idx[normalizeBookKey(b.Name)] = b
		for _, a := range b.Aliases {
			idx[normalizeBookKey(a)] = b
		}
	}
	return idx
}

// normalizeBookKey lower-cases, drops a trailing period and squeezes spaces,
// so "1  Sam." and "1sam" collapse to the same key.
func normalizeBookKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, ".")
	return strings.Join(strings.Fields(s), "")
}

// LookupBook resolves a book name or abbreviation to its canonical entry.
func LookupBook(name string) (Book, bool) {
	b, ok := bookIndex[normalizeBookKey(name)]
	return b, ok
}

// BookByNumber returns the book at the given 1-based canonical position.
func BookByNumber(n int) (Book, bool) {
	if n < 1 || n > len(books) {
		return Book{}, false
	}
	return books[n-1], true
}

// bookNames returns every name and alias, for building the reference pattern.
func bookNames() []string {
	var names []string
	for _, b := range books {
		names = append(names, strings.ToLower(b.Name))
		names = append(names, b.Aliases...)
	}
	return names
}

package prompts

import "strings"

type CharterSection struct {
	Number string
	Text   string
}

// charterSections is the reference text made available to the charter analysis prompt.
var charterSections = []CharterSection{
	{"2(b)", "Everyone has the following fundamental freedoms: freedom of thought, belief, opinion and expression, including freedom of the press and other media of communication."},
	{"7", "Everyone has the right to life, liberty and security of the person and the right not to be deprived thereof except in accordance with the principles of fundamental justice."},
	{"8", "Everyone has the right to be secure against unreasonable search or seizure."},
	{"9", "Everyone has the right not to be arbitrarily detained or imprisoned."},
	{"10", "Everyone has the right on arrest or detention (a) to be informed promptly of the reasons therefor; (b) to retain and instruct counsel without delay and to be informed of that right; and (c) to have the validity of the detention determined by way of habeas corpus and to be released if the detention is not lawful."},
	{"11", "Any person charged with an offence has the right (a) to be informed without unreasonable delay of the specific offence; (b) to be tried within a reasonable time; (c) not to be compelled to be a witness in proceedings against that person in respect of that offence; (d) to be presumed innocent until proven guilty according to law in a fair and public hearing by an independent and impartial tribunal; (e) not to be denied reasonable bail without just cause; (f) except in the case of an offence under military law tried before a military tribunal, to the benefit of trial by jury where the maximum punishment for the offence is imprisonment for five years or a more severe punishment; (g) not to be found guilty on account of any act or omission unless, at the time of the act or omission, it constituted an offence under Canadian or international law or was criminal according to the general principles of law recognized by civilized nations; (h) if finally acquitted of the offence, not to be tried for it again and, if finally found guilty and punished for the offence, not to be tried or punished for it again; and (i) if found guilty of the offence and if the punishment for the offence has been varied between the time of commission and the time of sentence, to the benefit of the lesser punishment."},
}

func CharterSections() []CharterSection {
	return append([]CharterSection(nil), charterSections...)
}

// CharterReference renders every section as "s. N: text" lines.
func CharterReference() string {
	var b strings.Builder
	for _, s := range charterSections {
		b.WriteString("s. ")
		b.WriteString(s.Number)
		b.WriteString(": ")
		b.WriteString(s.Text)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

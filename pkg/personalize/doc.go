// Package personalize fills email templates with per-customer values.
//
// Two tokens are recognized:
//
//	{cliente.nome}   the customer folder name
//	{numeros_notas}  invoice numbers derived from the folder's filenames
//
// Every occurrence is replaced. Unknown tokens are left verbatim.
//
//	tpl := personalize.Template{
//		Subject: "Notas Fiscais - {cliente.nome}",
//		Body:    personalize.DefaultBody,
//	}
//	content := tpl.Personalize("ACME", []string{"NF_101.pdf", "NF_102.pdf"})
//	// content.Subject == "Notas Fiscais - ACME"
//
// HTML returns the structural HTML projection of a plain-text body: each
// line break becomes <br> and nothing else changes.
package personalize

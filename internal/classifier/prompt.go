package classifier

import (
	"strings"
	"text/template"
)

var promptTmpl = template.Must(template.New("vpn").Parse(`Analyze if the following organization is definitively a VPN service provider:

Organization Name: {{.OrgName}}
ASN Description: {{.ASNDescription}}

Search Results:
{{.Evidence}}

Determine if this organization is a VPN provider based on these strict criteria:
1. The organization explicitly markets itself as a VPN, private relay, or CDN service.
2. The organization is a well-known, established VPN, private relay, or CDN service provider (e.g., NordVPN, ExpressVPN).
3. There is clear evidence that the organization's primary business is providing VPN, private relay, or CDN services.

Do NOT classify as a VPN if:
- It's a general telecom or internet service provider.
- It's a hosting service or cloud provider.
- There's any ambiguity or lack of clear evidence about VPN services.

Respond in JSON format:
{
    "is_vpn": true/false,
    "explanation": "Your very brief explanation here"
}
Set "is_vpn" to true ONLY if you are absolutely certain based on the criteria above.
`))

type promptData struct {
	OrgName        string
	ASNDescription string
	Evidence       string
}

// RenderPrompt fills the classification prompt. Inputs are embedded verbatim.
func RenderPrompt(orgName, asnDescription, evidence string) (string, error) {
	var b strings.Builder
	err := promptTmpl.Execute(&b, promptData{
		OrgName:        orgName,
		ASNDescription: asnDescription,
		Evidence:       evidence,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

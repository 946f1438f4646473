package view

const pageTemplates = `
{{define "header"}}Example store </>
  Catalog </catalog> | Delivery </delivery> | Contacts </contacts> | {{.CartLabel}} </cart>
----------------------------------------------------------------
{{end}}

{{define "catalog"}}Catalog
{{if .Loading}}LOADING
{{else if .Failed}}Failed to load catalog, please try again.
{{else}}{{range .Cards}}#{{.Id}} {{.Name}}  {{.Price}}{{if .InCart}}  [Item in cart]{{end}}  Details </catalog/{{.Id}}>
{{end}}{{if .Stale}}Catalog may be outdated, please try again.
{{end}}{{end}}{{end}}

{{define "product"}}{{if .NotFound}}Product not found.
{{else if .Product}}{{.Product.Name}}
{{.Product.Description}}
{{.Price}}
Color: {{.Product.Color}}
Material: {{.Product.Material}}
[Add to Cart]{{if .InCart}}  [Item in cart]{{end}}
{{else if .Failed}}Failed to load product, please try again.
{{else}}LOADING
{{end}}{{end}}

{{define "cart"}}Shopping cart
{{if .Success}}[alert-success] Well done! Order #{{.OrderId}} has been successfully completed.
{{end}}{{if .Failed}}[alert-danger] Checkout failed: {{.ErrText}}
{{end}}{{if .Empty}}Cart is empty. Please select products in the catalog </catalog>.
{{else}}{{range .Rows}}{{.Index}}. {{.Name}}  {{.Price}} x {{.Count}} = {{.Total}}
{{end}}Order price: {{.Total}}
[Clear shopping cart]

Checkout
{{range .Fields}}{{.Label}}: {{.Value}}{{if .Invalid}}  [is-invalid] {{.Message}}{{end}}
{{end}}[Checkout]
{{end}}{{end}}

{{define "delivery"}}Delivery
Swift and Secure Delivery: experience the convenience of hassle-free shipping with our reliable delivery service.
{{end}}

{{define "contacts"}}Contacts
Have a question about our products or need assistance? Reach out to our customer support team.
{{end}}

{{define "home"}}Welcome to Example store!
Quickly find the products you need in the catalog </catalog>.
{{end}}

{{define "notfound"}}Page not found.
{{end}}
`

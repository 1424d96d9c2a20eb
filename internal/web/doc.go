// Package web serves the server-rendered landing and product pages.
//
// Pages are plain html/template documents embedded in the binary. The product page posts its form back to
// /product, where a [product.Controller] runs one submission and the resulting [product.View] picks the
// single visible panel.
//
// Routes
//
//	GET  /                    → landing page with the "Get Started" call to action
//	GET  /product             → product page, Idle
//	POST /product             → run a generation and render the settled view
//	GET  /static/highlight.css → chroma stylesheet for highlighted code blocks
package web

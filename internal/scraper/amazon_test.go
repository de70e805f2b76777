// internal/scraper/amazon_test.go
package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPageHTML = `
<html>
<body>
	<span id="productTitle"> Premium Wireless Earbuds with Charging Case </span>
	<div id="bylineInfo">Visit the SoundCo Store</div>
	<div id="feature-bullets">
		<ul>
			<li><span class="a-list-item">Make sure this fits by entering your model number.</span></li>
			<li><span class="a-list-item"> 30 hour battery life </span></li>
			<li><span class="a-list-item">Active noise cancellation</span></li>
			<li><span class="a-list-item">  </span></li>
		</ul>
	</div>
	<div id="productDescription">
		<p> Enjoy studio quality sound wherever you go. </p>
	</div>
	<span class="a-price"><span class="a-offscreen">$59.99</span></span>
	<img id="landingImage" src="https://images.example.com/main.jpg"/>
	<div id="altImages">
		<img src="https://images.example.com/alt1.jpg"/>
		<img src="https://images.example.com/sprite-arrows.png"/>
	</div>
</body>
</html>`

func TestParseProductPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(productPageHTML))
	require.NoError(t, err)

	product := ParseProductPage(doc)

	assert.Equal(t, "Premium Wireless Earbuds with Charging Case", product.Title)
	assert.Equal(t, "Enjoy studio quality sound wherever you go.", product.Description)
	assert.Equal(t, []string{"30 hour battery life", "Active noise cancellation"}, product.BulletPoints)
	assert.Equal(t, "SoundCo Store", product.Brand)
	assert.Equal(t, "$59.99", product.Price)
	assert.Equal(t, []string{
		"https://images.example.com/main.jpg",
		"https://images.example.com/alt1.jpg",
	}, product.Images)
}

func TestParseProductPageFallbackBullets(t *testing.T) {
	html := `
	<html><body>
		<span id="productTitle">Organic Trail Mix</span>
		<div id="productFactsDesktop_feature_div">
			<ul><li><span class="a-list-item">No added sugar</span></li></ul>
		</div>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	product := ParseProductPage(doc)

	assert.Equal(t, "Organic Trail Mix", product.Title)
	assert.Equal(t, []string{"No added sugar"}, product.BulletPoints)
	assert.Empty(t, product.Description)
}

func TestParseProductPageEmptyDocument(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)

	product := ParseProductPage(doc)

	assert.Empty(t, product.Title)
	assert.Empty(t, product.BulletPoints)
	assert.Empty(t, product.Images)
}

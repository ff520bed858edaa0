package render

// Pinned CDN assets.
var (
	jQuery = Asset{Name: "jquery.min.js", URL: "https://code.jquery.com/jquery-3.7.1.min.js", Kind: Script}

	dataTablesCSS = Asset{Name: "dataTables.dataTables.min.css", URL: "https://cdn.datatables.net/2.1.8/css/dataTables.dataTables.min.css", Kind: Stylesheet}
	dataTablesJS  = Asset{Name: "dataTables.min.js", URL: "https://cdn.datatables.net/2.1.8/js/dataTables.min.js", Kind: Script}
	buttonsCSS    = Asset{Name: "buttons.dataTables.min.css", URL: "https://cdn.datatables.net/buttons/3.1.2/css/buttons.dataTables.min.css", Kind: Stylesheet}
	buttonsJS     = Asset{Name: "dataTables.buttons.min.js", URL: "https://cdn.datatables.net/buttons/3.1.2/js/dataTables.buttons.min.js", Kind: Script}
	buttonsHTML5  = Asset{Name: "buttons.html5.min.js", URL: "https://cdn.datatables.net/buttons/3.1.2/js/buttons.html5.min.js", Kind: Script}
	jsZip         = Asset{Name: "jszip.min.js", URL: "https://cdnjs.cloudflare.com/ajax/libs/jszip/3.10.1/jszip.min.js", Kind: Script}
	pdfMake       = Asset{Name: "pdfmake.min.js", URL: "https://cdnjs.cloudflare.com/ajax/libs/pdfmake/0.2.7/pdfmake.min.js", Kind: Script}
	pdfFonts      = Asset{Name: "vfs_fonts.js", URL: "https://cdnjs.cloudflare.com/ajax/libs/pdfmake/0.2.7/vfs_fonts.js", Kind: Script}

	leafletCSS = Asset{Name: "leaflet.css", URL: "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css", Kind: Stylesheet}
	leafletJS  = Asset{Name: "leaflet.js", URL: "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js", Kind: Script}
)

// TableAssets are the files a table widget loads, in load order.
func TableAssets() []Asset {
	return []Asset{
		dataTablesCSS, buttonsCSS,
		jQuery, dataTablesJS, buttonsJS, jsZip, pdfMake, pdfFonts, buttonsHTML5,
	}
}

// MapAssets are the files a choropleth widget loads.
func MapAssets() []Asset {
	return []Asset{leafletCSS, leafletJS}
}

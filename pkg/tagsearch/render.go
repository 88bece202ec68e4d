package tagsearch

import (
	"bytes"
	"html/template"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
)

// searchDetailsTemplate lists the matched containers grouped by type.
const searchDetailsTemplate = `
{{- if .Sections -}}
<div class="tagsearch-details">
{{- range .Sections}}
  <div class="tagsearch-type" data-type="{{.Type}}">
    <h2>{{.Label}} <span class="count">({{len .Containers}})</span></h2>
    <ul>
    {{- range .Containers}}
      <li id="{{.NodeID}}" data-owner="{{.OwnerID}}" data-group="{{.GroupID}}">{{.Name}}</li>
    {{- end}}
    </ul>
  </div>
{{- end}}
</div>
{{- else -}}
<div class="tagsearch-details"><p class="no-results">No objects match the selected tags.</p></div>
{{- end}}
`

var sectionLabels = map[omodel.ContainerType]string{
	omodel.ImageType:       "Images",
	omodel.DatasetType:     "Datasets",
	omodel.ProjectType:     "Projects",
	omodel.ScreenType:      "Screens",
	omodel.PlateType:       "Plates",
	omodel.WellType:        "Wells",
	omodel.AcquisitionType: "Plate Acquisitions",
}

type Section struct {
	Type       omodel.ContainerType
	Label      string
	Containers []omodel.Container
}

// Renderer renders the search-details fragment returned with search results.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("search_details").Parse(searchDetailsTemplate)
	if err != nil {
		return nil, err
	}

	return &Renderer{tmpl: tmpl}, nil
}

func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}

	return r
}

// RenderSearchDetails renders one section per container type that has
// matches, in search order.
func (r *Renderer) RenderSearchDetails(containers map[omodel.ContainerType][]omodel.Container) (string, error) {
	var sections []Section
	for _, ct := range omodel.ContainerTypes {
		if len(containers[ct]) == 0 {
			continue
		}

		sections = append(sections, Section{Type: ct, Label: sectionLabels[ct], Containers: containers[ct]})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, struct{ Sections []Section }{sections}); err != nil {
		return "", err
	}

	return buf.String(), nil
}

package catalog

import "github.com/lzjever/wsm/internal/core"

type Template struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Type        core.WorkspaceType `json:"type"`
	Tools       []string           `json:"tools"`
	Downloads   int                `json:"downloads"`
	Rating      float64            `json:"rating"`
	AuthorName  string             `json:"author_name"`
	Tags        []string           `json:"tags"`
}

var templates = []Template{
	{
		ID:          "data-science-template",
		Name:        "Data Science Workspace",
		Description: "Complete setup for data analysis and machine learning",
		Type:        core.TypeDataAnalysis,
		Tools:       []string{"Python", "Jupyter", "Pandas", "NumPy", "Scikit-learn", "PostgreSQL"},
		Downloads:   1250,
		Rating:      4.8,
		AuthorName:  "DataSci Team",
		Tags:        []string{"python", "ml", "data", "jupyter"},
	},
	{
		ID:          "web-dev-template",
		Name:        "Full-Stack Web Development",
		Description: "Modern web development with React, Node.js, and PostgreSQL",
		Type:        core.TypeWebDev,
		Tools:       []string{"Node.js", "React", "TypeScript", "PostgreSQL", "Docker", "VS Code"},
		Downloads:   2100,
		Rating:      4.9,
		AuthorName:  "WebDev Pro",
		Tags:        []string{"react", "nodejs", "typescript", "fullstack"},
	},
	{
		ID:          "devops-template",
		Name:        "DevOps & Infrastructure",
		Description: "Complete DevOps toolkit with Docker, Kubernetes, and monitoring",
		Type:        core.TypeDevOps,
		Tools:       []string{"Docker", "Kubernetes", "Terraform", "Ansible", "Prometheus", "Grafana"},
		Downloads:   890,
		Rating:      4.7,
		AuthorName:  "DevOps Master",
		Tags:        []string{"docker", "kubernetes", "terraform", "monitoring"},
	},
	{
		ID:          "mobile-dev-template",
		Name:        "Mobile App Development",
		Description: "Cross-platform mobile development with React Native and Flutter",
		Type:        core.TypeMobileDev,
		Tools:       []string{"React Native", "Flutter", "Android Studio", "Xcode", "Firebase"},
		Downloads:   1560,
		Rating:      4.6,
		AuthorName:  "Mobile Dev Team",
		Tags:        []string{"mobile", "react-native", "flutter", "ios", "android"},
	},
	{
		ID:          "blockchain-template",
		Name:        "Blockchain Development",
		Description: "Smart contract development with Solidity and Web3 tools",
		Type:        core.TypeBlockchain,
		Tools:       []string{"Solidity", "Truffle", "Ganache", "MetaMask", "Web3.js", "Hardhat"},
		Downloads:   720,
		Rating:      4.5,
		AuthorName:  "Blockchain Builder",
		Tags:        []string{"blockchain", "solidity", "web3", "ethereum"},
	},
}

// Templates returns copies of the built-in templates.
func Templates() []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		t.Tools = append([]string(nil), t.Tools...)
		t.Tags = append([]string(nil), t.Tags...)
		out[i] = t
	}
	return out
}

func TemplateByID(id string) (Template, bool) {
	for _, t := range Templates() {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Request turns a template into a create request. An empty name keeps the
// template's own name.
func (t Template) Request(name string) core.CreateWorkspaceRequest {
	if name == "" {
		name = t.Name
	}
	return core.CreateWorkspaceRequest{
		Name:        name,
		Type:        t.Type,
		Description: t.Description,
		Tools:       append([]string(nil), t.Tools...),
	}
}

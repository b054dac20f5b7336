package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const aboutURI = "vectorgov://about"

const aboutText = `# VectorGov

Busca semântica em legislação brasileira de licitações e contratos
públicos: Lei 14.133/2021, decretos regulamentadores, instruções
normativas e portarias, com trechos curados por especialistas e
jurisprudência do TCU.

## Ferramentas

- **search_legislation**: busca semântica na base, com filtros por tipo
  de documento, ano e órgão.
- **list_documents**: lista paginada dos documentos da base.
- **get_article**: texto exato de um dispositivo a partir de uma
  referência como "Art. 33 da Lei 14.133", com pai e irmãos.

As respostas citam os dispositivos de origem; fundamente as respostas
exclusivamente nos trechos retornados.
`

func (s *Server) registerResources() {
	about := mcp.NewResource(
		aboutURI,
		"Sobre o VectorGov",
		mcp.WithResourceDescription("O que é a base VectorGov e como usar as ferramentas deste servidor"),
		mcp.WithMIMEType("text/markdown"),
	)
	s.mcp.AddResource(about, s.handleAboutResource)
}

func (s *Server) handleAboutResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if request.Params.URI != aboutURI {
		return nil, fmt.Errorf("unknown resource: %s", request.Params.URI)
	}
	text := aboutText
	if s.cfg.Search.Mode != "" {
		text += fmt.Sprintf("\nModo de busca padrão: %s.\n", strings.ToLower(s.cfg.Search.Mode))
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      aboutURI,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}

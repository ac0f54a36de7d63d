package digest

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// DoBytes calcula o digest sha256 em hexadecimal dos bytes crus da imagem.
// Retorna ("", false) quando não há bytes (resultado "indisponível").
func DoBytes(b []byte) (string, bool) {
	if len(b) == 0 {
		return "", false
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), true
}

// Decodifica converte o payload base64 da imagem em bytes crus,
// aceitando o prefixo data-URL que algumas câmeras enviam.
func Decodifica(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(s)
}

// DeBase64 decodifica o payload base64 e calcula o digest. Entrada vazia
// ou malformada resulta em ("", false), nunca em erro: a ingestão segue
// sem digest.
func DeBase64(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	raw, err := Decodifica(s)
	if err != nil {
		return "", false
	}
	return DoBytes(raw)
}

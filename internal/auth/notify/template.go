package notify

import (
	"errors"
	"fmt"
)

// ErrUnimplementedLanguage is returned when the configured locale has no template.
var ErrUnimplementedLanguage = errors.New("unimplemented template language")

// RenderVerificationCode renders the localized verification notification for
// the given language. Returns the message head and body, or
// ErrUnimplementedLanguage when the locale has no template.
func RenderVerificationCode(language, userName, codeValue string) (head, body string, err error) {
	switch language {
	case "pt-BR":
		head = fmt.Sprintf("Seu código de verificação é %s", codeValue)
		body = fmt.Sprintf(
			"Olá, %s!\nEstamos quase lá. Insira o código %s para confirmar seu e-mail e ativar sua conta com segurança. Ele expira em uma hora.",
			userName, codeValue)
		return head, body, nil
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnimplementedLanguage, language)
	}
}

// Package lang holds every customer-facing text of the bot.
package lang

import "fmt"

// Footer is appended to every outgoing message.
const Footer = "\n\nℹ️ Digite 0 para voltar ao menu inicial ou 99 para voltar à pergunta anterior."

// FooterMarker identifies a message that already carries the footer.
const FooterMarker = "ℹ️ Digite 0"

var texts = map[string]string{
	"main_menu": `🍕 Olá, %s! Seja bem-vindo à Pizzaria Di Casa! 😄

📲 Peça rápido pelo Cardápio Digital:
👉 %s

Ou escolha uma opção:
1 - Ver Cardápio e fazer pedido
3 - Falar com Atendente
4 - Ver Promoções
5 - Ver Cardápio Digital`,

	"catalog_header":  "📋 *Cardápio Pizzaria Di Casa*\n",
	"catalog_size":    "\n%s - %s: %s",
	"catalog_crust":   "\n\n🧀 Borda recheada: + %s",
	"catalog_flavors": "\n\n🍕 Sabores:",
	"catalog_flavor":  "\n• %s",
	"catalog_howto":   "\n\nPara pedir, escreva quantidade, tamanho e sabores.\n📌 Exemplo: 1 G Calabresa com borda e 1 F metade Frango/Catupiry, metade Portuguesa",
	"digital_menu":    "📲 Acesse nosso Cardápio Digital e faça seu pedido:\n👉 %s",
	"human_handoff":   "👩‍🍳 Certo! Um atendente vai falar com você em instantes. Aguarde, por favor.",
	"promotions":      "🔥 Promoção da semana: na compra de 2 pizzas família, a borda recheada sai de graça!",

	"parse_error":    "😕 Não entendi seu pedido. Escreva quantidade, tamanho (P, G ou F) e sabores.\n📌 Exemplo: 2 G Calabresa ou 1 F metade Portuguesa, metade Quatro Queijos",
	"ask_size_qty":   "🍕 Ótima escolha: %s!\nQuantas e de qual tamanho? (P, G ou F)\n📌 Exemplo: 1 G ou 2 pizzas família com borda",
	"size_qty_error": "😕 Não entendi a quantidade e o tamanho.\n📌 Exemplo: 1 G ou 2 pizzas família com borda",
	"order_summary":  "🧾 Resumo do pedido:%s\n\nSubtotal: %s",
	"ask_step":       "Digite seu %s:\n%s",
	"empty_answer":   "⚠️ Essa informação é obrigatória.\nDigite seu %s:\n%s",

	"delivery_summary": "🧾 Resumo do pedido:%s\n\nSubtotal: %s\nTaxa de entrega (%s): %s\n💰 Total: %s",
	"zone_default":     "padrão",

	"pix_instructions": `💠 Pagamento via PIX
Chave: %s
Nome: %s
Banco: %s
Valor: %s

📸 Envie aqui a foto do comprovante para confirmarmos seu pedido.`,
	"order_confirmed": "✅ Pedido confirmado, %s!\n💰 Total: %s\n💵 Pagamento: %s\n\nSeu pedido já está sendo preparado. 🍕",
	"proof_received":  "✅ Comprovante recebido! Seu pedido foi confirmado e está a caminho.",

	"apology":             "😓 Desculpe, tivemos um problema ao processar sua mensagem. Tente novamente em instantes.",
	"interpreter_default": "🤔 Não entendi muito bem. Digite *menu* para ver as opções ou escreva seu pedido.\n📌 Exemplo: 1 G Calabresa",
}

// Step labels and examples, keyed by step name.
var (
	stepLabels = map[string]string{
		"nome":      "nome",
		"endereco":  "endereço",
		"bairro":    "bairro",
		"pagamento": "forma de pagamento",
	}
	stepExamples = map[string]string{
		"nome":      "📌 Exemplo: João da Silva",
		"endereco":  "📌 Exemplo: Rua das Flores, nº 123, apto 45",
		"bairro":    "📌 Exemplo: Centro",
		"pagamento": "📌 Exemplo: PIX ou Dinheiro",
	}
)

// T formats the text registered under key. Unknown keys come back as the key.
func T(key string, args ...interface{}) string {
	s, ok := texts[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}

// StepLabel names the information a step asks for.
func StepLabel(step string) string {
	if l, ok := stepLabels[step]; ok {
		return l
	}
	return step
}

// StepExample is the example answer shown with a step prompt.
func StepExample(step string) string {
	return stepExamples[step]
}

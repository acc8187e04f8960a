// Package responder renders the assistant's templated replies. It is pure
// string assembly: given a classification and an optional task operation
// outcome it always produces a usable reply, never an error.
package responder

import (
	"fmt"
	"math/rand"
	"strings"

	"orumaiv/internal/common/logger"
	"orumaiv/internal/models"
	"orumaiv/internal/nlu"
	"orumaiv/internal/taskagent"
)

// Reply is one rendered assistant message.
type Reply struct {
	Text             string `json:"text"`
	FollowupQuestion string `json:"followupQuestion,omitempty"`
}

// Responder builds replies from templates keyed on intent.
type Responder struct {
	logger logger.Logger
	pick   func(n int) int
}

func New(log logger.Logger) *Responder {
	return &Responder{
		logger: log.WithFields(map[string]interface{}{"component": "responder"}),
		pick:   rand.Intn,
	}
}

// NewWithPicker overrides greeting selection, used by tests.
func NewWithPicker(log logger.Logger, pick func(n int) int) *Responder {
	r := New(log)
	r.pick = pick
	return r
}

var greetings = []string{
	"Olá! Como posso ajudar você hoje?",
	"Oi! O que você gostaria de fazer?",
	"Olá! Estou aqui para ajudar com suas tarefas.",
	"Ei! O que podemos organizar hoje?",
}

// WelcomeMessage renders the automatic greeting shown when a chat opens,
// summarizing the selected task when one is available.
func (r *Responder) WelcomeMessage(task *models.Task) Reply {
	if task == nil {
		return Reply{Text: "Olá! Estou aqui para ajudar com suas tarefas. No momento, não temos informações detalhadas sobre esta tarefa. Como posso ajudar?"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Olá! Estou vendo que você está trabalhando na tarefa %q.", task.Text)
	b.WriteString("\n\nAqui está um resumo:")

	if task.Description != "" {
		fmt.Fprintf(&b, "\n• Descrição: %s", task.Description)
	}
	if task.Time != "" {
		fmt.Fprintf(&b, "\n• Agendada para: %s", task.Time)
	}
	if task.DueDate != "" {
		fmt.Fprintf(&b, "\n• Data: %s", task.DueDate)
	}
	if task.Priority != "" {
		fmt.Fprintf(&b, "\n• Prioridade: %s", task.Priority.Label())
	}

	b.WriteString(taskTypeSuggestion(task.Text))
	b.WriteString("\n\nComo posso ajudar com esta tarefa hoje?")

	return Reply{Text: b.String()}
}

// Generate renders a reply for a classified message. taskResult may be nil
// when no task operation ran.
func (r *Responder) Generate(result nlu.ClassificationResult, taskResult *taskagent.Result, message string, task *models.Task) Reply {
	switch {
	case result.Intent == nlu.IntentError:
		return Reply{Text: "Desculpe, encontrei um problema ao processar sua mensagem. Poderia tentar novamente?"}

	case result.Intent == nlu.IntentGeneralQuestion:
		return r.specificAnswer(message, task)

	case nlu.IsTaskIntent(result.Intent):
		return r.taskReply(result.Intent, taskResult, task)

	case result.Intent == nlu.IntentGreeting:
		return r.greeting(task)

	case result.Intent == nlu.IntentHelp:
		return r.help(task)

	default:
		return r.general(message, task)
	}
}

// specificAnswer handles general questions with a small set of canned
// answers before the generic fallback.
func (r *Responder) specificAnswer(message string, task *models.Task) Reply {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "mcp") && strings.Contains(lower, "ia") {
		return Reply{Text: "MCP em IA geralmente se refere a \"Modelo de Componentes Principais\" ou em inglês \"Principal Component Model\", uma técnica usada para redução de dimensionalidade e análise de dados em inteligência artificial e aprendizado de máquina. Ajuda a identificar padrões importantes em conjuntos de dados complexos."}
	}

	if strings.Contains(lower, "o que você") || strings.Contains(lower, "quem é você") {
		return Reply{Text: "Sou Orumaiv, um assistente de IA projetado para ajudar com o gerenciamento das suas tarefas. Posso criar, atualizar e organizar suas atividades, além de fornecer informações úteis quando solicitado."}
	}

	if task != nil {
		if strings.Contains(lower, "lembrar") || strings.Contains(lower, "quando") || strings.Contains(lower, "horário") {
			schedule := "não tem um horário específico definido"
			if task.Time != "" {
				schedule = "está agendada para " + task.Time
			}
			text := fmt.Sprintf("Sua tarefa %q %s.", task.Text, schedule)
			if task.Description != "" {
				text += " Detalhes: " + task.Description
			}
			return Reply{Text: text}
		}

		if strings.Contains(lower, "detalhes") || strings.Contains(lower, "sobre") {
			return Reply{Text: fmt.Sprintf("Esta tarefa é %q. %s", task.Text, formatTaskInfo(task))}
		}
	}

	return Reply{Text: "Não tenho informações específicas sobre isso, mas estou aqui para ajudar com suas tarefas. Posso criar novas tarefas, atualizar existentes ou responder perguntas relacionadas ao seu gerenciador de tarefas."}
}

func (r *Responder) taskReply(intent string, taskResult *taskagent.Result, task *models.Task) Reply {
	if taskResult != nil && taskResult.Error != "" {
		return Reply{Text: fmt.Sprintf("Não foi possível %s: %s", actionText(intent), taskResult.Error)}
	}

	switch intent {
	case nlu.IntentTaskCreate:
		if taskResult != nil && taskResult.Success {
			title := "nova tarefa"
			if taskResult.TaskData != nil && taskResult.TaskData.Text != "" {
				title = taskResult.TaskData.Text
			}
			return Reply{
				Text:             fmt.Sprintf("Tarefa %q criada com sucesso!", title),
				FollowupQuestion: "Gostaria de definir um lembrete para esta tarefa?",
			}
		}
		return Reply{Text: "Não consegui criar a tarefa. Poderia tentar novamente com mais detalhes?"}

	case nlu.IntentTaskUpdate:
		if taskResult != nil && taskResult.Success {
			return Reply{Text: "Tarefa atualizada com sucesso!"}
		}
		return Reply{Text: "Não foi possível atualizar a tarefa. Por favor, verifique se a tarefa existe."}

	case nlu.IntentTaskDelete:
		if taskResult != nil && taskResult.Success {
			return Reply{Text: "Tarefa excluída com sucesso!"}
		}
		return Reply{Text: "Não foi possível excluir a tarefa. Por favor, verifique se a tarefa existe."}

	case nlu.IntentTaskComplete:
		if taskResult != nil && taskResult.Success {
			return Reply{Text: "Ótimo! Marquei a tarefa como concluída. Parabéns pelo progresso!"}
		}
		return Reply{Text: "Não foi possível marcar a tarefa como concluída. Por favor, verifique se a tarefa existe."}

	case nlu.IntentTaskList:
		return Reply{
			Text:             "As tarefas estão listadas na tela principal.",
			FollowupQuestion: "Gostaria de filtrar por alguma categoria específica?",
		}

	case nlu.IntentTaskQuery:
		if task != nil {
			return Reply{Text: fmt.Sprintf("Informações sobre a tarefa %q: %s", task.Text, formatTaskInfo(task))}
		}
		return Reply{Text: "Por favor, selecione uma tarefa específica para ver mais detalhes."}

	default:
		return Reply{Text: "Não entendi exatamente o que você gostaria de fazer com suas tarefas. Poderia ser mais específico?"}
	}
}

func (r *Responder) greeting(task *models.Task) Reply {
	greeting := greetings[r.pick(len(greetings))]
	followup := "Gostaria de criar uma nova tarefa ou gerenciar as existentes?"

	if task != nil {
		greeting += fmt.Sprintf(" Estou vendo que você está trabalhando na tarefa %q.", task.Text)
		followup = "Gostaria de atualizar esta tarefa ou criar uma nova?"
	}

	return Reply{Text: greeting, FollowupQuestion: followup}
}

func (r *Responder) help(task *models.Task) Reply {
	text := `Posso ajudar você a:
1. Criar novas tarefas
2. Atualizar tarefas existentes
3. Marcar tarefas como concluídas
4. Excluir tarefas
5. Listar suas tarefas

Basta me dizer o que você precisa fazer.`

	if task != nil {
		text += fmt.Sprintf("\n\nVocê está atualmente visualizando a tarefa %q. Você pode me pedir para atualizá-la, concluí-la ou excluí-la.", task.Text)
	}

	return Reply{Text: text}
}

func (r *Responder) general(message string, task *models.Task) Reply {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "o que você") || strings.Contains(lower, "quem é você") {
		return Reply{Text: "Sou um assistente para ajudar com o gerenciamento das suas tarefas. Posso criar, atualizar e organizar suas atividades diárias."}
	}

	if task != nil {
		return Reply{Text: fmt.Sprintf("Estou aqui para ajudar com suas tarefas. Você está atualmente visualizando %q. Como posso ajudar com esta tarefa?", task.Text)}
	}
	return Reply{Text: "Estou aqui principalmente para ajudar com suas tarefas. Como posso auxiliar?"}
}

func taskTypeSuggestion(title string) string {
	lower := strings.ToLower(title)
	switch {
	case containsAny(lower, "reuni", "session", "pesquisa", "entrevista"):
		return "\n\nPosso ajudar você a preparar o roteiro, definir participantes ou agendar lembretes para esta sessão de pesquisa."
	case containsAny(lower, "compra", "pão", "lista"):
		return "\n\nPosso ajudar você a gerenciar sua lista de compras, adicionar itens ou definir um lembrete."
	case containsAny(lower, "consulta", "dentista", "médico"):
		return "\n\nPosso ajudar você a preparar-se para esta consulta, adicionar lembretes ou atualizar a descrição."
	case containsAny(lower, "yoga", "exercício", "praticar"):
		return "\n\nPosso ajudar você com lembretes para esta atividade ou sugerir como incluí-la em sua rotina regular."
	default:
		return "\n\nPosso ajudar você a gerenciar esta tarefa, definir lembretes ou fazer alterações."
	}
}

func formatTaskInfo(task *models.Task) string {
	var details []string

	if task.Description != "" {
		details = append(details, "Descrição: "+task.Description)
	}
	if task.DueDate != "" {
		details = append(details, "Data: "+task.DueDate)
	}
	if task.Time != "" {
		details = append(details, "Horário: "+task.Time)
	}
	if task.Priority != "" {
		details = append(details, "Prioridade: "+task.Priority.Label())
	}
	if task.Tag != "" {
		details = append(details, "Categoria: "+task.Tag)
	}

	if len(details) == 0 {
		return "Sem detalhes adicionais."
	}
	return strings.Join(details, ", ")
}

func actionText(intent string) string {
	switch intent {
	case nlu.IntentTaskCreate:
		return "criar a tarefa"
	case nlu.IntentTaskUpdate:
		return "atualizar a tarefa"
	case nlu.IntentTaskDelete:
		return "excluir a tarefa"
	case nlu.IntentTaskComplete:
		return "concluir a tarefa"
	case nlu.IntentTaskList:
		return "listar as tarefas"
	default:
		return "processar sua solicitação"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

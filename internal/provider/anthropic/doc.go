// Package anthropic provides a Claude chat client implementing
// [imagegen.ChatProvider]. It backs prompt enhancement when Groq is not
// configured.
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//	resp, err := client.Chat(ctx, []imagegen.Message{
//	    {Role: imagegen.RoleSystem, Content: "Rewrite prompts for image models."},
//	    {Role: imagegen.RoleUser, Content: "a red fox"},
//	})
//
// Anthropic does not generate images; it is never selected as an image
// provider.
package anthropic

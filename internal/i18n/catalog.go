package i18n

var catalogs = map[Lang]map[string]string{
	EN: {
		"loading":           "Loading...",
		"welcome_back":      "Welcome back",
		"create_account":    "Create your account",
		"email":             "Email",
		"password":          "Password",
		"sign_in":           "Sign in",
		"sign_up":           "Sign up",
		"sign_out":          "Sign out",
		"no_account":        "Don't have an account?",
		"has_account":       "Already have an account?",
		"reg_success":       "Registration successful! Please sign in.",
		"profile_editor":    "Profile editor",
		"profile_details":   "Profile details",
		"username":          "Username",
		"display_name":      "Display name",
		"bio":               "Bio",
		"bio_placeholder":   "Welcome to my digital card!",
		"avatar_url":        "Avatar URL",
		"avatar_hint":       "Paste a link to an image.",
		"theme_color":       "Theme color",
		"links":             "Links",
		"add_link":          "Add link",
		"add_link_hint":     "Add your first link to get started.",
		"title_placeholder": "Title",
		"url_placeholder":   "https://",
		"fill_title":        "Fetch title",
		"delete_link":       "Delete link",
		"toggle_visibility": "Toggle visibility",
		"save_changes":      "Save changes",
		"saving":            "Saving...",
		"saved_success":     "Profile saved successfully!",
		"live_preview":      "Live preview",
		"my_link":           "My link",
		"copy":              "Copy",
		"copied":            "Link copied!",
		"view_live":         "View live",
		"no_links_card":     "No links yet.",
		"profile_not_found": "Profile not found",
		"user_not_found":    "The user you are looking for does not exist.",
		"save_contact":      "Save contact",
		"scan_to_visit":     "Scan to visit",
		"show_qr":           "Show QR code",
		"protected_by":      "Protected by SeuLink",
		"link_card_brand":   "SeuLink",
		"username_taken":    "This username is already taken.",
		"username_required": "Username is required.",
		"load_failed":       "Your profile could not be loaded. Reload before saving.",
	},
	PT: {
		"loading":           "Carregando...",
		"welcome_back":      "Bem-vindo de volta",
		"create_account":    "Crie sua conta",
		"email":             "E-mail",
		"password":          "Senha",
		"sign_in":           "Entrar",
		"sign_up":           "Cadastrar",
		"sign_out":          "Sair",
		"no_account":        "Não tem uma conta?",
		"has_account":       "Já tem uma conta?",
		"reg_success":       "Cadastro realizado! Faça login.",
		"profile_editor":    "Editor de perfil",
		"profile_details":   "Detalhes do perfil",
		"username":          "Nome de usuário",
		"display_name":      "Nome de exibição",
		"bio":               "Bio",
		"bio_placeholder":   "Bem-vindo ao meu cartão digital!",
		"avatar_url":        "URL do avatar",
		"avatar_hint":       "Cole o link de uma imagem.",
		"theme_color":       "Cor do tema",
		"links":             "Links",
		"add_link":          "Adicionar link",
		"add_link_hint":     "Adicione seu primeiro link para começar.",
		"title_placeholder": "Título",
		"url_placeholder":   "https://",
		"fill_title":        "Buscar título",
		"delete_link":       "Excluir link",
		"toggle_visibility": "Alternar visibilidade",
		"save_changes":      "Salvar alterações",
		"saving":            "Salvando...",
		"saved_success":     "Perfil salvo com sucesso!",
		"live_preview":      "Prévia ao vivo",
		"my_link":           "Meu link",
		"copy":              "Copiar",
		"copied":            "Link copiado!",
		"view_live":         "Ver online",
		"no_links_card":     "Nenhum link ainda.",
		"profile_not_found": "Perfil não encontrado",
		"user_not_found":    "O usuário que você procura não existe.",
		"save_contact":      "Salvar contato",
		"scan_to_visit":     "Escaneie para visitar",
		"show_qr":           "Mostrar QR code",
		"protected_by":      "Protegido por SeuLink",
		"link_card_brand":   "SeuLink",
		"username_taken":    "Este nome de usuário já está em uso.",
		"username_required": "O nome de usuário é obrigatório.",
		"load_failed":       "Não foi possível carregar seu perfil. Recarregue antes de salvar.",
	},
}

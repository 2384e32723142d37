package insight

// Prompt templates for every operation. Each instructs the model to return
// bare JSON; the normalizer copes when it does not.

const sentimentPrompt = `Analyze the sentiment of this customer feedback in JSON format:

"%s"

Return ONLY valid JSON with these exact keys:
{ "sentiment": "positive/neutral/negative", "confidence": 0.0-1.0, "summary": "brief analysis" }`

const benchmarkPrompt = `Provide market intelligence on '%s' in JSON format:
Return ONLY valid JSON with these exact keys:
{ "market_score": 0-100, "trend": "up/down/stable", "market_position": "description", "key_strength": "strength", "key_weakness": "weakness" }`

const compliancePrompt = `Review this marketing text for compliance issues in JSON format:

"%s"

Return ONLY valid JSON with these exact keys:
{ "risk_level": "low/medium/high", "flagged_phrases": [list], "suggestions": [list], "gdpr_compliant": true/false }`

const chatSystemPrompt = `You are a helpful AI business assistant for an AI growth platform. ` +
	`Answer questions about business growth, AI capabilities, and product features. ` +
	`Keep responses concise and professional.`

const predictionPrompt = `Analyze customer behavior data and predict in JSON format:
Data: %s

Return ONLY valid JSON with these exact keys:
{ "churn_risk": "high/medium/low", "churn_probability": 0-100, "next_best_action": "action", "campaign_timing": "timing", "recommended_channel": "channel" }`

const recommendationPrompt = `Generate product recommendations in JSON format:
User Profile: %s

Return ONLY valid JSON with this exact key:
{ "recommended_products": [{"name": "product", "reason": "why", "priority": "high/medium/low"}] }`

// leadReasoningPrompt explains an already-computed score. Args: budget,
// timeline, urgency, optional context line, score, score, probability, score.
const leadReasoningPrompt = `As a sales analyst, provide a brief, actionable reasoning for this lead score.

LEAD ATTRIBUTES:
- Budget: %s
- Timeline: %s
- Urgency Level: %s%s

Calculated Lead Score: %d/100

Provide ONLY valid JSON (no markdown) with this structure:
{
    "lead_score": %d,
    "conversion_probability": %d,
    "reasoning": "1-2 sentence explanation of why this is a %d/100 lead",
    "key_strengths": ["strength 1", "strength 2"],
    "risk_factors": ["risk 1", "risk 2"],
    "recommended_action": "specific next step for sales team",
    "sales_strategy": "how to approach this lead"
}`

const legacyLeadSystemPrompt = `Act as a Sales Analyst and Lead Qualification Expert.`

// legacyLeadReasoningPrompt is the legacy-path variant: the probability is a
// pre-formatted percentage string. Args: budget, timeline, urgency, score,
// score, probability.
const legacyLeadReasoningPrompt = `Explain this lead score in VALID JSON format.

Lead Attributes:
- Budget: %s
- Timeline: %s
- Urgency: %s
- Calculated Score: %d/100

Return ONLY valid JSON with this exact structure (no markdown wrapping, no extra text):
{
    "lead_score": %d,
    "conversion_probability": "%s",
    "reasoning": "1-2 sentence explanation of why this score",
    "key_strengths": ["strength 1", "strength 2"],
    "risk_factors": ["risk 1", "risk 2"],
    "recommended_action": "specific next step to take",
    "sales_strategy": "how to approach this lead"
}`

const campaignSystemPrompt = `Act as a LinkedIn Marketing Expert and Strategic Campaign Designer.`

const campaignPrompt = `Create a comprehensive marketing campaign strategy in VALID JSON format.

Product: %s
Target Audience: %s

Return ONLY valid JSON with this exact structure (no markdown wrapping, no extra text):
{
    "campaign_objectives": ["objective 1", "objective 2", "objective 3"],
    "content_ideas": [
        {"title": "idea title", "format": "article/video/webinar", "key_message": "main point", "engagement_angle": "how to engage"},
        ...5 ideas total...
    ],
    "ad_copy_variations": [
        {"variation": 1, "headline": "headline", "body": "body copy", "tone": "professional/casual/urgent"},
        ...3 variations total...
    ],
    "platform_specific_ctas": {"linkedin": "CTA text", "email": "CTA text", "web": "CTA text"},
    "campaign_timeline": "timeline description",
    "expected_kpis": {"ctr": "expected CTR", "conversion": "expected conversion rate", "lead_quality": "quality assessment"}
}`

const pitchSystemPrompt = `Act as an Elite B2B Sales Architect and Sales Strategy Expert.`

const pitchPrompt = `Create a tailored B2B sales pitch in VALID JSON format.

Prospect Title: %s
Company Tier: %s

Return ONLY valid JSON with this exact structure (no markdown wrapping, no extra text):
{
    "elevator_pitch_30sec": "30-second pitch",
    "pain_point_analysis": {
        "primary_pain": "main pain point",
        "secondary_pains": ["pain 1", "pain 2"]
    },
    "differentiators": [
        {"differentiator": "what we offer", "benefits_for_role": "how it helps them", "impact": "concrete results"},
        ...3 total...
    ],
    "strategic_cta": {
        "immediate_next_step": "action to take",
        "suggested_angle": "positioning approach",
        "objection_handler": "response to common objection"
    },
    "discovery_questions": ["question 1", "question 2", "question 3"],
    "social_proof_angles": ["proof angle 1", "proof angle 2"]
}`

// marketingStrategyPrompt drives the generator-hub strategist. Args:
// product details, LinkedIn demographics.
const marketingStrategyPrompt = `You are an expert B2B marketing strategist. Generate a structured marketing campaign in VALID JSON format.

PRODUCT DETAILS:
%s

TARGET LINKEDIN DEMOGRAPHICS:
%s

Return ONLY valid JSON (no markdown, no extra text) with this exact structure:
{
    "campaign_objectives": ["objective 1", "objective 2", "objective 3"],
    "content_ideas": [
        {"id": 1, "title": "content title", "format": "article/case study/infographic", "key_message": "main message", "engagement_angle": "why it matters to audience"},
        ...5 ideas total...
    ],
    "ad_copy_variations": [
        {"variation": 1, "headline": "compelling headline", "body": "persuasive body copy", "tone": "professional/casual/urgent"},
        ...3 variations total...
    ],
    "platform_specific_ctas": {
        "linkedin": "CTA optimized for LinkedIn",
        "email": "CTA optimized for Email campaigns",
        "web": "CTA optimized for Website"
    },
    "campaign_timeline": "suggested timeline in weeks",
    "expected_kpis": {
        "click_through_rate": "estimated %%",
        "conversion_rate": "estimated %%",
        "lead_quality_score": "1-10 scale"
    }
}`

// salesPitchPrompt drives the generator-hub pitch architect. Args: prospect
// title, company tier, optional product-info line, prospect title (twice in
// the structure example).
const salesPitchPrompt = `You are an elite B2B sales strategist. Create a targeted sales pitch in VALID JSON format.

PROSPECT PROFILE:
- Title: %s
- Company Tier: %s%s

Generate ONLY valid JSON (no markdown) with this exact structure:
{
    "elevator_pitch_30sec": "A concise, compelling 30-second pitch tailored to this prospect",
    "pain_point_analysis": {
        "primary_pain": "main pain point for this role/company tier",
        "secondary_pains": ["pain point 2", "pain point 3"]
    },
    "differentiators": [
        {"differentiator": "unique value proposition", "benefits_for_role": "specific benefits for %s", "impact": "quantified business impact"},
        ...3 total...
    ],
    "strategic_cta": {
        "immediate_next_step": "What to ask/do immediately",
        "suggested_angle": "How to position the next step",
        "objection_handler": "How to handle likely objections"
    },
    "discovery_questions": ["question 1 to ask prospect", "question 2 to ask prospect", "question 3 to ask prospect"],
    "social_proof_angles": ["case study angle relevant to this prospect", "testimonial angle relevant to this prospect"]
}`

const legacyCampaignPrompt = `Act as a Marketing Manager. Create a campaign for:
Product: %s
Audience: %s
Platform: %s
Include: Strategy, Content Ideas, and KPIs.`

const legacyPitchPrompt = `Act as a Sales Expert. Write a SPIN sales pitch for:
Product: %s
Customer: %s
Include: Elevator Pitch, Value Prop, and Closing.`

const legacyScorePrompt = `Act as a Lead Scorer. Analyze:
Name: %s
Budget: %s
Need: %s
Urgency: %s
Output: Score (0-100), Conversion Probability %%, and Reasoning.`
